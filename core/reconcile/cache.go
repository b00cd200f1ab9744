package reconcile

import (
	"context"
	"fmt"
	"time"

	"registry-sync/core/models"
)

// URLKey is the natural key of a URL row.
type URLKey struct {
	URL    string
	TypeID string
}

// Snapshot is the raw result of the store read that backs a Cache.
type Snapshot struct {
	Packages     []models.Package
	URLs         []models.URL
	PackageURLs  []models.PackageURL
	Dependencies []models.LegacyDependency
}

// Loader reads the current store state for one package manager.
type Loader interface {
	Load(ctx context.Context, packageManagerID string) (*Snapshot, error)
}

// Cache is the read-only diff baseline of a run.
type Cache struct {
	packages     map[string]models.Package
	urls         map[URLKey]models.URL
	packageURLs  map[string][]models.PackageURL
	dependencies map[string][]models.LegacyDependency

	// Built is the time the snapshot was indexed.
	Built time.Time
}

// CacheSize reports how many entries each index holds.
type CacheSize struct {
	Packages     int `json:"packages" yaml:"packages"`
	URLs         int `json:"urls" yaml:"urls"`
	PackageURLs  int `json:"package_urls" yaml:"package_urls"`
	Dependencies int `json:"dependencies" yaml:"dependencies"`
}

// NewCache indexes a snapshot. key extracts the natural key of a package.
func NewCache(s *Snapshot, key func(models.Package) string) *Cache {
	if s == nil {
		s = &Snapshot{}
	}

	c := &Cache{
		packages:     make(map[string]models.Package, len(s.Packages)),
		urls:         make(map[URLKey]models.URL, len(s.URLs)),
		packageURLs:  make(map[string][]models.PackageURL),
		dependencies: make(map[string][]models.LegacyDependency),
		Built:        time.Now(),
	}

	// Index packages by natural key
	for _, p := range s.Packages {
		c.packages[key(p)] = p
	}
	// URLs are shared, keyed by (url, type)
	for _, u := range s.URLs {
		c.urls[URLKey{URL: u.URL, TypeID: u.URLTypeID}] = u
	}
	// Group links and edges by owning package
	for _, l := range s.PackageURLs {
		c.packageURLs[l.PackageID] = append(c.packageURLs[l.PackageID], l)
	}
	for _, d := range s.Dependencies {
		c.dependencies[d.PackageID] = append(c.dependencies[d.PackageID], d)
	}

	return c
}

// BuildCache loads the snapshot for a package manager and indexes it.
func BuildCache(ctx context.Context, loader Loader, packageManagerID string, key func(models.Package) string) (*Cache, error) {
	snap, err := loader.Load(ctx, packageManagerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cache snapshot: %w", err)
	}
	return NewCache(snap, key), nil
}

// Package looks up a package by natural key.
func (c *Cache) Package(key string) (models.Package, bool) {
	p, ok := c.packages[key]
	return p, ok
}

// URL looks up a URL by (url, url_type_id).
func (c *Cache) URL(key URLKey) (models.URL, bool) {
	u, ok := c.urls[key]
	return u, ok
}

// PackageURLs returns the cached links of a package.
func (c *Cache) PackageURLs(packageID string) []models.PackageURL {
	return c.packageURLs[packageID]
}

// Dependencies returns the cached outgoing edges of a package.
func (c *Cache) Dependencies(packageID string) []models.LegacyDependency {
	return c.dependencies[packageID]
}

// Size returns the number of entries per index.
func (c *Cache) Size() CacheSize {
	size := CacheSize{
		Packages: len(c.packages),
		URLs:     len(c.urls),
	}
	for _, links := range c.packageURLs {
		size.PackageURLs += len(links)
	}
	for _, deps := range c.dependencies {
		size.Dependencies += len(deps)
	}
	return size
}
