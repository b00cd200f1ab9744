package models

import "time"

// Package is one upstream package owned by a single package manager.
type Package struct {
	ID               string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	DerivedID        string    `gorm:"column:derived_id;type:varchar(255);uniqueIndex;not null" json:"derived_id"`
	Name             string    `gorm:"column:name;type:varchar(255);index;not null" json:"name"`
	PackageManagerID string    `gorm:"column:package_manager_id;type:varchar(36);index;not null" json:"package_manager_id"`
	ImportID         string    `gorm:"column:import_id;type:varchar(255);index;not null" json:"import_id"`
	Readme           string    `gorm:"column:readme;type:text" json:"readme,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Package) TableName() string {
	return "packages"
}

// URL is a normalized URL of a given type. (url, url_type_id) is unique.
type URL struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	URL       string    `gorm:"column:url;type:varchar(700);not null;uniqueIndex:uq_url_type_url,priority:2" json:"url"`
	URLTypeID string    `gorm:"column:url_type_id;type:varchar(36);not null;uniqueIndex:uq_url_type_url,priority:1" json:"url_type_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (URL) TableName() string {
	return "urls"
}

// PackageURL links a package to a URL. (package_id, url_id) is unique.
type PackageURL struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	PackageID string    `gorm:"column:package_id;type:varchar(36);not null;uniqueIndex:uq_package_url,priority:1" json:"package_id"`
	URLID     string    `gorm:"column:url_id;type:varchar(36);not null;uniqueIndex:uq_package_url,priority:2;index" json:"url_id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (PackageURL) TableName() string {
	return "package_urls"
}

// LegacyDependency is a typed edge between two packages.
// There is at most one edge per (package_id, dependency_id).
type LegacyDependency struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PackageID        string    `gorm:"column:package_id;type:varchar(36);not null;uniqueIndex:uq_package_dependency,priority:1" json:"package_id"`
	DependencyID     string    `gorm:"column:dependency_id;type:varchar(36);not null;uniqueIndex:uq_package_dependency,priority:2;index" json:"dependency_id"`
	DependencyTypeID string    `gorm:"column:dependency_type_id;type:varchar(36);not null" json:"dependency_type_id"`
	CreatedAt        time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (LegacyDependency) TableName() string {
	return "legacy_dependencies"
}

// URLType is a lookup row (homepage, repository, source, ...).
type URLType struct {
	ID   string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name string `gorm:"column:name;type:varchar(64);uniqueIndex;not null" json:"name"`
}

func (URLType) TableName() string {
	return "url_types"
}

// DependsOnType is a lookup row (runtime, build, test, ...).
type DependsOnType struct {
	ID   string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Name string `gorm:"column:name;type:varchar(64);uniqueIndex;not null" json:"name"`
}

func (DependsOnType) TableName() string {
	return "depends_on_types"
}

// Source is an upstream registry (debian, homebrew, crates, ...).
type Source struct {
	ID   string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Type string `gorm:"column:type;type:varchar(64);uniqueIndex;not null" json:"type"`
}

func (Source) TableName() string {
	return "sources"
}

// PackageManager partitions packages. Each source has exactly one.
type PackageManager struct {
	ID       string `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	SourceID string `gorm:"column:source_id;type:varchar(36);uniqueIndex;not null" json:"source_id"`
	Source   Source `gorm:"foreignKey:SourceID" json:"source"`
}

func (PackageManager) TableName() string {
	return "package_managers"
}

// LoadHistory records one committed run of a pipeline.
type LoadHistory struct {
	ID               string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	PackageManagerID string    `gorm:"column:package_manager_id;type:varchar(36);index;not null" json:"package_manager_id"`
	CreatedAt        time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (LoadHistory) TableName() string {
	return "load_history"
}

// All returns every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Source{},
		&PackageManager{},
		&URLType{},
		&DependsOnType{},
		&Package{},
		&URL{},
		&PackageURL{},
		&LegacyDependency{},
		&LoadHistory{},
	}
}
