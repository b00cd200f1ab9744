package reconcile

import (
	"context"

	"registry-sync/core/models"
)

// Batch is everything a run accumulated, flushed in one ingest call.
type Batch struct {
	NewPackages         []models.Package          `json:"new_packages" yaml:"new_packages"`
	NewURLs             []models.URL              `json:"new_urls" yaml:"new_urls"`
	NewPackageURLs      []models.PackageURL       `json:"new_package_urls" yaml:"new_package_urls"`
	UpdatedPackages     []PackagePatch            `json:"updated_packages" yaml:"updated_packages"`
	UpdatedPackageURLs  []LinkPatch               `json:"updated_package_urls" yaml:"updated_package_urls"`
	NewDependencies     []models.LegacyDependency `json:"new_dependency_edges" yaml:"new_dependency_edges"`
	RemovedDependencies []models.LegacyDependency `json:"removed_dependency_edges" yaml:"removed_dependency_edges"`
}

// BatchSummary counts the entries of each collection.
type BatchSummary struct {
	NewPackages         int `json:"new_packages" yaml:"new_packages"`
	NewURLs             int `json:"new_urls" yaml:"new_urls"`
	NewPackageURLs      int `json:"new_package_urls" yaml:"new_package_urls"`
	UpdatedPackages     int `json:"updated_packages" yaml:"updated_packages"`
	UpdatedPackageURLs  int `json:"updated_package_urls" yaml:"updated_package_urls"`
	NewDependencies     int `json:"new_dependency_edges" yaml:"new_dependency_edges"`
	RemovedDependencies int `json:"removed_dependency_edges" yaml:"removed_dependency_edges"`
}

// Summary returns per-collection counts.
func (b *Batch) Summary() BatchSummary {
	return BatchSummary{
		NewPackages:         len(b.NewPackages),
		NewURLs:             len(b.NewURLs),
		NewPackageURLs:      len(b.NewPackageURLs),
		UpdatedPackages:     len(b.UpdatedPackages),
		UpdatedPackageURLs:  len(b.UpdatedPackageURLs),
		NewDependencies:     len(b.NewDependencies),
		RemovedDependencies: len(b.RemovedDependencies),
	}
}

// Counts returns the summary keyed by collection name.
func (s BatchSummary) Counts() map[string]int {
	return map[string]int{
		"new_packages":             s.NewPackages,
		"new_urls":                 s.NewURLs,
		"new_package_urls":         s.NewPackageURLs,
		"updated_packages":         s.UpdatedPackages,
		"updated_package_urls":     s.UpdatedPackageURLs,
		"new_dependency_edges":     s.NewDependencies,
		"removed_dependency_edges": s.RemovedDependencies,
	}
}

// Empty reports whether the batch carries no change at all.
func (b *Batch) Empty() bool {
	return len(b.NewPackages) == 0 &&
		len(b.NewURLs) == 0 &&
		len(b.NewPackageURLs) == 0 &&
		len(b.UpdatedPackages) == 0 &&
		len(b.UpdatedPackageURLs) == 0 &&
		len(b.NewDependencies) == 0 &&
		len(b.RemovedDependencies) == 0
}

// Ingester writes a batch atomically.
type Ingester interface {
	Ingest(ctx context.Context, batch *Batch) error
}

// Source yields incoming records. It returns io.EOF when exhausted.
type Source interface {
	Next(ctx context.Context) (Record, error)
}
