// Package models defines the gorm models for the registry store.
//
// The tables mirror the relational layout shared by every package-manager
// pipeline: packages are partitioned by package manager, URLs are shared
// across managers and deduplicated by (url, url_type_id), and dependency
// edges are unique per ordered (package_id, dependency_id) pair.
package models
