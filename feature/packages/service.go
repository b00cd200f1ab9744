package packages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"registry-sync/core/models"
	"registry-sync/core/store"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const sharedLoadTimeout = 10 * time.Second

// ErrPackageNotFound is returned when no package has the derived id.
var ErrPackageNotFound = errors.New("package not found")

// URLView is one URL attached to a package.
type URLView struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// DependencyView is one outgoing dependency edge.
type DependencyView struct {
	DerivedID string `json:"derived_id"`
	Type      string `json:"type"`
}

// PackageView is a package with its links and edges resolved.
type PackageView struct {
	models.Package
	URLs         []URLView        `json:"urls"`
	Dependencies []DependencyView `json:"dependencies"`
}

// RunView is one load_history row with its manager resolved.
type RunView struct {
	ID        string    `json:"id"`
	Manager   string    `json:"manager"`
	CreatedAt time.Time `json:"created_at"`
}

// RunList is the body of GET /runs.
type RunList struct {
	Runs []RunView `json:"runs"`
}

// Service reads packages and runs.
type Service struct {
	db     *gorm.DB
	store  *store.Store
	logger *zap.Logger
	group  singleflight.Group
}

// NewService creates a new packages service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		store:  store.New(db, logger),
		logger: logger,
	}
}

// Package returns the package with derived id "<manager>/<name>".
// Concurrent requests for the same package share one load; the returned
// view must not be modified.
func (s *Service) Package(ctx context.Context, manager, name string) (*PackageView, error) {
	derivedID := manager + "/" + name
	v, err := s.coalesce(ctx, derivedID, func(ctx context.Context) (any, error) {
		return s.load(ctx, derivedID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*PackageView), nil
}

// coalesce runs fn once per key for all concurrent callers. fn gets a context
// detached from the caller that started it, bounded by sharedLoadTimeout, so one
// cancelled request does not fail the others. Each caller still stops waiting
// when its own ctx ends.
func (s *Service) coalesce(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		return fn(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (s *Service) load(ctx context.Context, derivedID string) (*PackageView, error) {
	db := s.db.WithContext(ctx)

	var view PackageView
	if err := db.Where("derived_id = ?", derivedID).First(&view.Package).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, derivedID)
		}
		return nil, err
	}

	view.URLs = []URLView{}
	err := db.Table("package_urls").
		Select("urls.url AS url, url_types.name AS type").
		Joins("JOIN urls ON urls.id = package_urls.url_id").
		Joins("JOIN url_types ON url_types.id = urls.url_type_id").
		Where("package_urls.package_id = ?", view.ID).
		Order("url_types.name, urls.url").
		Scan(&view.URLs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load urls of %s: %w", derivedID, err)
	}

	view.Dependencies = []DependencyView{}
	err = db.Table("legacy_dependencies").
		Select("packages.derived_id AS derived_id, depends_on_types.name AS type").
		Joins("JOIN packages ON packages.id = legacy_dependencies.dependency_id").
		Joins("JOIN depends_on_types ON depends_on_types.id = legacy_dependencies.dependency_type_id").
		Where("legacy_dependencies.package_id = ?", view.ID).
		Order("packages.derived_id").
		Scan(&view.Dependencies).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load dependencies of %s: %w", derivedID, err)
	}

	return &view, nil
}

// Runs returns the latest runs, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]RunView, error) {
	loads, err := s.store.LatestLoads(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}

	var managers []models.PackageManager
	if err := s.db.WithContext(ctx).Preload("Source").Find(&managers).Error; err != nil {
		return nil, fmt.Errorf("failed to load package managers: %w", err)
	}
	names := make(map[string]string, len(managers))
	for _, pm := range managers {
		names[pm.ID] = pm.Source.Type
	}

	runs := make([]RunView, 0, len(loads))
	for _, l := range loads {
		runs = append(runs, RunView{ID: l.ID, Manager: names[l.PackageManagerID], CreatedAt: l.CreatedAt})
	}
	return runs, nil
}
