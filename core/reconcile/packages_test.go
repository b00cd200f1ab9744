package reconcile

import (
	"testing"

	"registry-sync/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcilePackage(t *testing.T) {
	cache := cacheOf(Snapshot{Packages: []models.Package{pkg("p1", "curl", "old readme")}})
	mint := func(r Record) models.Package {
		return models.Package{ID: "minted", Name: r.Name, Readme: r.Description}
	}

	t.Run("New package", func(t *testing.T) {
		res := ReconcilePackage(cache, "wget", Record{Name: "wget", Description: "d"}, mint, fixedNow)
		require.True(t, res.IsNew())
		assert.Equal(t, "minted", res.ID)
		assert.Equal(t, "d", res.New.Readme)
		assert.Nil(t, res.Patch)
	})

	t.Run("Unchanged readme", func(t *testing.T) {
		res := ReconcilePackage(cache, "curl", Record{Name: "curl", Description: "old readme"}, mint, fixedNow)
		assert.False(t, res.IsNew())
		assert.Equal(t, "p1", res.ID)
		assert.Nil(t, res.Patch)
	})

	t.Run("Changed readme", func(t *testing.T) {
		res := ReconcilePackage(cache, "curl", Record{Name: "curl", Description: "new readme"}, mint, fixedNow)
		assert.False(t, res.IsNew())
		require.NotNil(t, res.Patch)
		assert.Equal(t, PackagePatch{ID: "p1", Readme: "new readme", UpdatedAt: fixedNow}, *res.Patch)
	})
}
