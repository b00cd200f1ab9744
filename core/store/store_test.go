package store

import (
	"context"
	"testing"

	"registry-sync/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SeedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, nil)
	ctx := context.Background()

	spec := SeedSpec{
		Sources:         []string{"debian", "homebrew"},
		URLTypes:        []string{"homepage", "source"},
		DependencyTypes: []string{"runtime", "build"},
	}
	require.NoError(t, s.Seed(ctx, spec))

	urlTypes, depTypes, err := s.Types(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Seed(ctx, spec))
	urlTypes2, depTypes2, err := s.Types(ctx)
	require.NoError(t, err)

	assert.Len(t, urlTypes, 2)
	assert.Len(t, depTypes, 2)
	assert.Equal(t, urlTypes, urlTypes2)
	assert.Equal(t, depTypes, depTypes2)
	assert.Equal(t, int64(2), count(t, db, &models.PackageManager{}))
}

func TestStore_PackageManager(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, nil)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx, SeedSpec{Sources: []string{"crates"}}))

	pm, err := s.PackageManager(ctx, "crates")
	require.NoError(t, err)
	assert.NotEmpty(t, pm.ID)
	assert.Equal(t, "crates", pm.Source.Type)

	_, err = s.PackageManager(ctx, "npm")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Load(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, nil)

	seedPackage(t, db, "p1", "pm-a", "curl")
	seedPackage(t, db, "p2", "pm-a", "libc6")
	seedPackage(t, db, "p3", "pm-b", "wget")

	require.NoError(t, db.Create(&[]models.URL{
		{ID: "u1", URL: "curl.se", URLTypeID: "homepage", CreatedAt: t0, UpdatedAt: t0},
		{ID: "u2", URL: "gnu.org/wget", URLTypeID: "homepage", CreatedAt: t0, UpdatedAt: t0},
	}).Error)
	require.NoError(t, db.Create(&[]models.PackageURL{
		{ID: "l1", PackageID: "p1", URLID: "u1", CreatedAt: t0, UpdatedAt: t0},
		{ID: "l2", PackageID: "p3", URLID: "u2", CreatedAt: t0, UpdatedAt: t0},
	}).Error)
	require.NoError(t, db.Create(&[]models.LegacyDependency{
		{PackageID: "p1", DependencyID: "p2", DependencyTypeID: "runtime", CreatedAt: t0, UpdatedAt: t0},
		{PackageID: "p3", DependencyID: "p1", DependencyTypeID: "runtime", CreatedAt: t0, UpdatedAt: t0},
	}).Error)

	snap, err := s.Load(context.Background(), "pm-a")
	require.NoError(t, err)

	assert.Len(t, snap.Packages, 2)
	assert.Len(t, snap.URLs, 2, "urls are shared across package managers")
	require.Len(t, snap.PackageURLs, 1)
	assert.Equal(t, "l1", snap.PackageURLs[0].ID)
	require.Len(t, snap.Dependencies, 1)
	assert.Equal(t, "p2", snap.Dependencies[0].DependencyID)
	assert.NotZero(t, snap.Dependencies[0].ID)
}

func TestStore_Homepages(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, nil)

	seedPackage(t, db, "p1", "pm-a", "curl")
	require.NoError(t, db.Create(&[]models.URL{
		{ID: "u1", URL: "https://curl.se", URLTypeID: "homepage", CreatedAt: t0, UpdatedAt: t0},
		{ID: "u2", URL: "curl.se/docs", URLTypeID: "homepage", CreatedAt: t0, UpdatedAt: t0},
		{ID: "u3", URL: "github.com/curl/curl", URLTypeID: "source", CreatedAt: t0, UpdatedAt: t0},
	}).Error)
	require.NoError(t, db.Create(&[]models.PackageURL{
		{ID: "l1", PackageID: "p1", URLID: "u1", CreatedAt: t0, UpdatedAt: t0},
		{ID: "l2", PackageID: "p1", URLID: "u3", CreatedAt: t0, UpdatedAt: t0},
	}).Error)

	byPackage, existing, err := s.Homepages(context.Background(), "homepage")
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"p1": {"https://curl.se"}}, byPackage)
	assert.Equal(t, map[string]struct{}{"https://curl.se": {}, "curl.se/docs": {}}, existing)
}

func TestStore_LatestLoads(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, nil)

	require.NoError(t, db.Create(&[]models.LoadHistory{
		{ID: "h1", PackageManagerID: "pm-a", CreatedAt: t0},
		{ID: "h2", PackageManagerID: "pm-a", CreatedAt: t0.AddDate(0, 0, 1)},
	}).Error)

	loads, err := s.LatestLoads(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, loads, 1)
	assert.Equal(t, "h2", loads[0].ID)
}
