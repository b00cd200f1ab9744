package packages

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"registry-sync/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// seedRegistry stores curl -> libc6 (runtime) with a homepage, plus two runs.
func seedRegistry(t *testing.T, db *gorm.DB) {
	rows := []any{
		&models.Source{ID: "src-debian", Type: "debian"},
		&models.PackageManager{ID: "pm-debian", SourceID: "src-debian"},
		&models.URLType{ID: "ut-homepage", Name: "homepage"},
		&models.DependsOnType{ID: "dt-runtime", Name: "runtime"},
		&models.Package{ID: "p-curl", DerivedID: "debian/curl", Name: "curl", ImportID: "debian/curl", PackageManagerID: "pm-debian", Readme: "transfer tool", CreatedAt: t0, UpdatedAt: t0},
		&models.Package{ID: "p-libc", DerivedID: "debian/libc6", Name: "libc6", ImportID: "debian/libc6", PackageManagerID: "pm-debian", CreatedAt: t0, UpdatedAt: t0},
		&models.URL{ID: "u-curl", URL: "curl.se", URLTypeID: "ut-homepage", CreatedAt: t0, UpdatedAt: t0},
		&models.PackageURL{ID: "l-curl", PackageID: "p-curl", URLID: "u-curl", CreatedAt: t0, UpdatedAt: t0},
		&models.LegacyDependency{PackageID: "p-curl", DependencyID: "p-libc", DependencyTypeID: "dt-runtime", CreatedAt: t0, UpdatedAt: t0},
		&models.LoadHistory{ID: "run-1", PackageManagerID: "pm-debian", CreatedAt: t0},
		&models.LoadHistory{ID: "run-2", PackageManagerID: "pm-debian", CreatedAt: t0.Add(time.Hour)},
	}
	for _, row := range rows {
		require.NoError(t, db.Omit("Source").Create(row).Error)
	}
}

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db := setupTestDB(t)
	app := fiber.New()
	NewHandler(NewService(db, zap.NewNop())).RegisterRoutes(app)
	return app, db
}
