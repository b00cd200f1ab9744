package store

import (
	"context"
	"errors"
	"fmt"

	"registry-sync/core/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup row does not exist.
var ErrNotFound = errors.New("store: not found")

// Store wraps the registry database.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a store. A nil logger discards output.
func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates every table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// SeedSpec lists the lookup rows to create.
type SeedSpec struct {
	Sources         []string
	URLTypes        []string
	DependencyTypes []string
}

// Seed creates missing lookup rows. Existing rows keep their ids.
func (s *Store) Seed(ctx context.Context, spec SeedSpec) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range spec.URLTypes {
			var row models.URLType
			if err := tx.Where(models.URLType{Name: name}).
				Attrs(models.URLType{ID: uuid.NewString()}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed url type %s: %w", name, err)
			}
		}

		for _, name := range spec.DependencyTypes {
			var row models.DependsOnType
			if err := tx.Where(models.DependsOnType{Name: name}).
				Attrs(models.DependsOnType{ID: uuid.NewString()}).
				FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed dependency type %s: %w", name, err)
			}
		}

		for _, name := range spec.Sources {
			var src models.Source
			if err := tx.Where(models.Source{Type: name}).
				Attrs(models.Source{ID: uuid.NewString()}).
				FirstOrCreate(&src).Error; err != nil {
				return fmt.Errorf("seed source %s: %w", name, err)
			}

			var pm models.PackageManager
			if err := tx.Where(models.PackageManager{SourceID: src.ID}).
				Attrs(models.PackageManager{ID: uuid.NewString()}).
				Omit("Source").
				FirstOrCreate(&pm).Error; err != nil {
				return fmt.Errorf("seed package manager %s: %w", name, err)
			}
		}

		s.log.Info("Seeded lookup tables",
			zap.Int("sources", len(spec.Sources)),
			zap.Int("url_types", len(spec.URLTypes)),
			zap.Int("dependency_types", len(spec.DependencyTypes)),
		)
		return nil
	})
}

// PackageManager returns the package manager of a source.
func (s *Store) PackageManager(ctx context.Context, source string) (*models.PackageManager, error) {
	db := s.db.WithContext(ctx)

	var src models.Source
	if err := db.Where("type = ?", source).First(&src).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: source %q", ErrNotFound, source)
		}
		return nil, err
	}

	var pm models.PackageManager
	if err := db.Where("source_id = ?", src.ID).First(&pm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: package manager for %q", ErrNotFound, source)
		}
		return nil, err
	}
	pm.Source = src

	return &pm, nil
}

// Types returns name -> id for url types and dependency types.
func (s *Store) Types(ctx context.Context) (urlTypes, dependencyTypes map[string]string, err error) {
	db := s.db.WithContext(ctx)

	var urls []models.URLType
	if err := db.Find(&urls).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load url types: %w", err)
	}
	var deps []models.DependsOnType
	if err := db.Find(&deps).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load dependency types: %w", err)
	}

	urlTypes = make(map[string]string, len(urls))
	for _, t := range urls {
		urlTypes[t.Name] = t.ID
	}
	dependencyTypes = make(map[string]string, len(deps))
	for _, t := range deps {
		dependencyTypes[t.Name] = t.ID
	}

	return urlTypes, dependencyTypes, nil
}

// LatestLoads returns the most recent load_history rows, newest first.
func (s *Store) LatestLoads(ctx context.Context, limit int) ([]models.LoadHistory, error) {
	var rows []models.LoadHistory
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
