package reconcile

import (
	"time"

	"registry-sync/core/models"
)

// PackagePatch is the only mutation applied to an existing package.
type PackagePatch struct {
	ID        string    `json:"id" yaml:"id"`
	Readme    string    `json:"readme" yaml:"readme"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// PackageResult is the outcome of reconciling one record.
// New is set for new packages; Patch is set when the readme changed.
type PackageResult struct {
	ID    string
	New   *models.Package
	Patch *PackagePatch
}

// IsNew reports whether the package was minted in this run.
func (r PackageResult) IsNew() bool {
	return r.New != nil
}

// ReconcilePackage looks the record up by natural key and decides between
// new, changed and unchanged. mint builds the package for a cache miss.
func ReconcilePackage(cache *Cache, key string, rec Record, mint func(Record) models.Package, now time.Time) PackageResult {
	existing, ok := cache.Package(key)
	if !ok {
		pkg := mint(rec)
		return PackageResult{ID: pkg.ID, New: &pkg}
	}

	if existing.Readme == rec.Description {
		return PackageResult{ID: existing.ID}
	}

	return PackageResult{
		ID: existing.ID,
		Patch: &PackagePatch{
			ID:        existing.ID,
			Readme:    rec.Description,
			UpdatedAt: now,
		},
	}
}
