package reconcile

import (
	"testing"

	"registry-sync/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileLinks(t *testing.T) {
	existing := []models.PackageURL{
		{ID: "l1", PackageID: "p1", URLID: "u1"},
		{ID: "l2", PackageID: "p1", URLID: "u-stale"},
	}
	resolved := map[string]string{
		urlHomepage: "u1",
		urlSource:   "u2",
	}

	created, touched := ReconcileLinks("p1", resolved, existing, fixedNow, sequence("link"))

	require.Len(t, created, 1)
	assert.Equal(t, models.PackageURL{
		ID:        "link-1",
		PackageID: "p1",
		URLID:     "u2",
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}, created[0])

	// stale links are neither touched nor removed
	assert.Equal(t, []LinkPatch{{ID: "l1", UpdatedAt: fixedNow}}, touched)
}

func TestReconcileLinks_SameURLUnderTwoTypes(t *testing.T) {
	resolved := map[string]string{
		urlHomepage: "u1",
		urlSource:   "u1",
	}

	created, touched := ReconcileLinks("p1", resolved, nil, fixedNow, sequence("link"))

	assert.Len(t, created, 1)
	assert.Empty(t, touched)
}
