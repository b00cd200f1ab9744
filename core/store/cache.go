package store

import (
	"context"
	"fmt"

	"registry-sync/core/models"
	"registry-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Load implements reconcile.Loader. The four indices are read concurrently.
// URLs are read in full since they are shared across package managers.
func (s *Store) Load(ctx context.Context, packageManagerID string) (*reconcile.Snapshot, error) {
	var snap reconcile.Snapshot

	// each call starts a fresh statement, so goroutines never share one
	owned := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Package{}).Select("id").Where("package_manager_id = ?", packageManagerID)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		db := s.db.WithContext(gctx)
		if err := db.Where("package_manager_id = ?", packageManagerID).Find(&snap.Packages).Error; err != nil {
			return fmt.Errorf("packages: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := s.db.WithContext(gctx).Find(&snap.URLs).Error; err != nil {
			return fmt.Errorf("urls: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		db := s.db.WithContext(gctx)
		if err := db.Where("package_id IN (?)", owned(s.db)).Find(&snap.PackageURLs).Error; err != nil {
			return fmt.Errorf("package urls: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		db := s.db.WithContext(gctx)
		if err := db.Where("package_id IN (?)", owned(s.db)).Find(&snap.Dependencies).Error; err != nil {
			return fmt.Errorf("dependencies: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	s.log.Info("Loaded cache snapshot",
		zap.String("package_manager_id", packageManagerID),
		zap.Int("packages", len(snap.Packages)),
		zap.Int("urls", len(snap.URLs)),
		zap.Int("package_urls", len(snap.PackageURLs)),
		zap.Int("dependencies", len(snap.Dependencies)),
	)

	return &snap, nil
}

// Homepages returns package id -> homepage URLs (oldest link first) and the
// set of every stored homepage URL.
func (s *Store) Homepages(ctx context.Context, homepageTypeID string) (map[string][]string, map[string]struct{}, error) {
	type row struct {
		PackageID string
		URL       string
	}

	db := s.db.WithContext(ctx)

	var rows []row
	err := db.Table("package_urls").
		Select("package_urls.package_id AS package_id, urls.url AS url").
		Joins("JOIN urls ON urls.id = package_urls.url_id").
		Where("urls.url_type_id = ?", homepageTypeID).
		Order("package_urls.package_id, package_urls.created_at, urls.url").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load homepages: %w", err)
	}

	var all []string
	if err := db.Model(&models.URL{}).Where("url_type_id = ?", homepageTypeID).Pluck("url", &all).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load homepage urls: %w", err)
	}

	byPackage := make(map[string][]string)
	for _, r := range rows {
		byPackage[r.PackageID] = append(byPackage[r.PackageID], r.URL)
	}
	existing := make(map[string]struct{}, len(all))
	for _, u := range all {
		existing[u] = struct{}{}
	}

	return byPackage, existing, nil
}
