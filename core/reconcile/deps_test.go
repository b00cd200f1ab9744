package reconcile

import (
	"errors"
	"testing"

	"registry-sync/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapse(t *testing.T) {
	priority := testTypes().Priority

	tests := []struct {
		name     string
		declared []Declaration
		want     map[string]string
	}{
		{
			name: "Runtime beats build regardless of order",
			declared: []Declaration{
				{DependencyID: "b", TypeID: depBuild},
				{DependencyID: "b", TypeID: depRuntime},
			},
			want: map[string]string{"b": depRuntime},
		},
		{
			name: "Build beats test",
			declared: []Declaration{
				{DependencyID: "b", TypeID: depTest},
				{DependencyID: "b", TypeID: depBuild},
			},
			want: map[string]string{"b": depBuild},
		},
		{
			name: "Distinct targets are kept",
			declared: []Declaration{
				{DependencyID: "b", TypeID: depTest},
				{DependencyID: "c", TypeID: depRuntime},
			},
			want: map[string]string{"b": depTest, "c": depRuntime},
		},
		{
			name: "Unranked type loses to any ranked type",
			declared: []Declaration{
				{DependencyID: "b", TypeID: "unranked"},
				{DependencyID: "b", TypeID: depTest},
			},
			want: map[string]string{"b": depTest},
		},
		{
			name: "Equal rank keeps the first",
			declared: []Declaration{
				{DependencyID: "b", TypeID: "x"},
				{DependencyID: "b", TypeID: "y"},
			},
			want: map[string]string{"b": "x"},
		},
		{
			name:     "Empty",
			declared: nil,
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collapse(tt.declared, priority))
		})
	}
}

func TestReconcileDependencies_TypeChange(t *testing.T) {
	cached := []models.LegacyDependency{edge(7, "a", "b", depRuntime)}
	declared := []Declaration{{DependencyID: "b", TypeID: depBuild}}

	added, removed, err := ReconcileDependencies("a", declared, cached, testTypes().Priority, fixedNow)
	require.NoError(t, err)

	require.Len(t, removed, 1)
	assert.Equal(t, cached[0], removed[0])

	require.Len(t, added, 1)
	assert.Equal(t, "a", added[0].PackageID)
	assert.Equal(t, "b", added[0].DependencyID)
	assert.Equal(t, depBuild, added[0].DependencyTypeID)
	assert.Equal(t, fixedNow, added[0].CreatedAt)
	assert.Zero(t, added[0].ID)
}

func TestReconcileDependencies_Unchanged(t *testing.T) {
	cached := []models.LegacyDependency{
		edge(1, "a", "b", depRuntime),
		edge(2, "a", "c", depTest),
	}
	declared := []Declaration{
		{DependencyID: "c", TypeID: depTest},
		{DependencyID: "b", TypeID: depRuntime},
		{DependencyID: "b", TypeID: depBuild},
	}

	added, removed, err := ReconcileDependencies("a", declared, cached, testTypes().Priority, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestReconcileDependencies_DroppedTarget(t *testing.T) {
	cached := []models.LegacyDependency{
		edge(1, "a", "b", depRuntime),
		edge(2, "a", "c", depRuntime),
	}
	declared := []Declaration{{DependencyID: "b", TypeID: depRuntime}}

	added, removed, err := ReconcileDependencies("a", declared, cached, testTypes().Priority, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Equal(t, []models.LegacyDependency{cached[1]}, removed)
}

func TestReconcileDependencies_SortedOutput(t *testing.T) {
	declared := []Declaration{
		{DependencyID: "z", TypeID: depRuntime},
		{DependencyID: "m", TypeID: depRuntime},
		{DependencyID: "c", TypeID: depBuild},
	}

	added, _, err := ReconcileDependencies("a", declared, nil, testTypes().Priority, fixedNow)
	require.NoError(t, err)
	require.Len(t, added, 3)
	assert.Equal(t, "c", added[0].DependencyID)
	assert.Equal(t, "m", added[1].DependencyID)
	assert.Equal(t, "z", added[2].DependencyID)
}

func TestIntegrityError(t *testing.T) {
	var err error = &IntegrityError{PackageID: "a", DependencyID: "b", DependencyTypeID: depRuntime}

	assert.True(t, errors.Is(err, ErrIntegrity))
	assert.Contains(t, err.Error(), "a -> b")
}
