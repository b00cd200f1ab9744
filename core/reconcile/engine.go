package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"registry-sync/core/canon"
	"registry-sync/core/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures an Engine.
type Options struct {
	// Profile describes the upstream package manager.
	Profile Profile

	// Types resolves type names to ids.
	Types Types

	// PackageManagerID is stamped on new packages.
	PackageManagerID string

	// Normalize canonicalizes URLs. Defaults to canon.Normalize.
	Normalize func(string) (string, error)

	// Limit stops the run after this many records. Zero means no limit.
	Limit int

	// Logger receives warnings for recoverable conditions.
	Logger *zap.Logger

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// Stats counts what a run saw and skipped.
type Stats struct {
	Records           int `json:"records" yaml:"records"`
	Duplicates        int `json:"duplicates" yaml:"duplicates"`
	MalformedURLs     int `json:"malformed_urls" yaml:"malformed_urls"`
	UnknownURLTypes   int `json:"unknown_url_types" yaml:"unknown_url_types"`
	UnknownKinds      int `json:"unknown_kinds" yaml:"unknown_kinds"`
	UnresolvedTargets int `json:"unresolved_targets" yaml:"unresolved_targets"`
}

// Warnings returns the recoverable condition counts keyed by kind.
func (s Stats) Warnings() map[string]int {
	return map[string]int{
		"duplicate":       s.Duplicates,
		"malformed_url":   s.MalformedURLs,
		"unknown_url":     s.UnknownURLTypes,
		"unknown_kind":    s.UnknownKinds,
		"unresolved_deps": s.UnresolvedTargets,
	}
}

// Engine is the diff orchestrator of one run. It is not safe for concurrent use.
type Engine struct {
	cache *Cache
	opts  Options
	log   *zap.Logger

	urls   *URLResolver
	minted map[string]string
	seen   map[string]struct{}
	batch  Batch
	stats  Stats
}

// NewEngine creates an engine over a cache snapshot.
func NewEngine(cache *Cache, opts Options) (*Engine, error) {
	if cache == nil {
		return nil, errors.New("reconcile: nil cache")
	}
	if opts.Profile.Source == "" {
		return nil, errors.New("reconcile: profile has no source")
	}
	if opts.PackageManagerID == "" {
		return nil, errors.New("reconcile: package manager id is required")
	}
	if opts.Normalize == nil {
		opts.Normalize = canon.Normalize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Engine{
		cache:  cache,
		opts:   opts,
		log:    opts.Logger.With(zap.String("source", opts.Profile.Source)),
		urls:   NewURLResolver(cache, opts.Now, opts.NewID),
		minted: make(map[string]string),
		seen:   make(map[string]struct{}),
	}, nil
}

// Diff reconciles one record and accumulates its changes.
// The only error it returns is fatal for the run.
func (e *Engine) Diff(rec Record) error {
	e.stats.Records++

	// Skip repeats of a key already diffed
	key := e.opts.Profile.Key(rec)
	if _, dup := e.seen[key]; dup {
		e.stats.Duplicates++
		e.log.Warn("Duplicate record in run, keeping the first", zap.String("package", key))
		return nil
	}
	e.seen[key] = struct{}{}

	now := e.opts.Now()

	// Package row
	pkg := ReconcilePackage(e.cache, key, rec, e.mintPackage, now)
	if pkg.IsNew() {
		e.batch.NewPackages = append(e.batch.NewPackages, *pkg.New)
		e.minted[key] = pkg.ID
	}
	if pkg.Patch != nil {
		e.batch.UpdatedPackages = append(e.batch.UpdatedPackages, *pkg.Patch)
	}

	// URLs, then links from the package to them
	resolved := e.urls.Resolve(e.desiredURLs(key, rec))

	var existingLinks []models.PackageURL
	if !pkg.IsNew() {
		existingLinks = e.cache.PackageURLs(pkg.ID)
	}
	created, touched := ReconcileLinks(pkg.ID, resolved, existingLinks, now, e.opts.NewID)
	e.batch.NewPackageURLs = append(e.batch.NewPackageURLs, created...)
	e.batch.UpdatedPackageURLs = append(e.batch.UpdatedPackageURLs, touched...)

	// dependencies of a package minted in this run are picked up by the next run
	if pkg.IsNew() {
		return nil
	}

	// Dependency edges against the cached set
	added, removed, err := ReconcileDependencies(
		pkg.ID,
		e.declarations(key, rec),
		e.cache.Dependencies(pkg.ID),
		e.opts.Types.Priority,
		now,
	)
	if err != nil {
		return fmt.Errorf("package %s: %w", key, err)
	}
	e.batch.NewDependencies = append(e.batch.NewDependencies, added...)
	e.batch.RemovedDependencies = append(e.batch.RemovedDependencies, removed...)

	return nil
}

// Run drives the per-package loop over src and flushes once at the end.
// A nil ingester computes the batch without writing it.
func (e *Engine) Run(ctx context.Context, src Source, ingester Ingester) (*Batch, error) {
	for {
		// Test mode
		if e.opts.Limit > 0 && e.stats.Records >= e.opts.Limit {
			e.log.Info("Record limit reached, stopping early", zap.Int("limit", e.opts.Limit))
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Pull next record
		rec, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if err := e.Diff(rec); err != nil {
			return nil, err
		}
	}

	// Flush once
	batch := e.Batch()
	if ingester == nil {
		return batch, nil
	}
	if batch.Empty() {
		e.log.Info("Nothing changed, skipping ingest")
		return batch, nil
	}

	if err := ingester.Ingest(ctx, batch); err != nil {
		return batch, err
	}
	return batch, nil
}

// Batch returns the accumulated change-set.
func (e *Engine) Batch() *Batch {
	b := e.batch
	b.NewURLs = e.urls.Pending()
	return &b
}

// Stats returns counters for the run so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) mintPackage(rec Record) models.Package {
	now := e.opts.Now()
	return models.Package{
		ID:               e.opts.NewID(),
		DerivedID:        e.opts.Profile.DerivedID(rec),
		Name:             rec.Name,
		PackageManagerID: e.opts.PackageManagerID,
		ImportID:         e.opts.Profile.ImportID(rec),
		Readme:           rec.Description,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (e *Engine) desiredURLs(key string, rec Record) []URLKey {
	desired := make([]URLKey, 0, len(rec.URLs)+1)

	for _, declared := range rec.URLs {
		typeID, ok := e.opts.Types.URL[declared.Type]
		if !ok {
			e.stats.UnknownURLTypes++
			e.log.Warn("Unknown URL type", zap.String("package", key), zap.String("type", declared.Type))
			continue
		}

		normalized, err := e.opts.Normalize(declared.URL)
		if err != nil {
			e.stats.MalformedURLs++
			e.log.Warn("Skipping malformed URL", zap.String("package", key), zap.String("url", declared.URL), zap.Error(err))
			continue
		}

		desired = append(desired, URLKey{URL: normalized, TypeID: typeID})

		if e.opts.Profile.SourceIsRepository && declared.Type == URLTypeSource && canon.IsGitHub(normalized) {
			if repoID, ok := e.opts.Types.URL[URLTypeRepository]; ok {
				desired = append(desired, URLKey{URL: normalized, TypeID: repoID})
			}
		}
	}

	return desired
}

func (e *Engine) declarations(key string, rec Record) []Declaration {
	declared := make([]Declaration, 0, len(rec.Dependencies))

	for _, dep := range rec.Dependencies {
		typeName, ok := e.opts.Profile.DependencyType(dep.Kind)
		if !ok {
			e.stats.UnknownKinds++
			e.log.Warn("Unknown dependency kind", zap.String("package", key), zap.String("kind", dep.Kind))
			continue
		}
		typeID := e.opts.Types.Dependency[typeName]

		dependencyID, ok := e.resolveTarget(e.opts.Profile.TargetKey(dep.Name))
		if !ok {
			e.stats.UnresolvedTargets++
			e.log.Warn("Unresolved dependency target", zap.String("package", key), zap.String("target", dep.Name))
			continue
		}

		declared = append(declared, Declaration{DependencyID: dependencyID, TypeID: typeID})
	}

	return declared
}

// resolveTarget checks the cache first, then packages minted earlier in this run.
func (e *Engine) resolveTarget(key string) (string, bool) {
	if p, ok := e.cache.Package(key); ok {
		return p.ID, true
	}
	id, ok := e.minted[key]
	return id, ok
}
