package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Keys(t *testing.T) {
	debian := Profile{Source: "debian", KeyBy: KeyImportID, ImportIDPrefix: "debian/"}

	rec := Record{Name: "curl"}
	assert.Equal(t, "debian/curl", debian.ImportID(rec))
	assert.Equal(t, "debian/curl", debian.Key(rec))
	assert.Equal(t, "debian/curl", debian.DerivedID(rec))
	assert.Equal(t, "debian/libc6", debian.TargetKey("libc6"))
	assert.Equal(t, "debian/libc6", debian.TargetKey("debian/libc6"))

	homebrew := Profile{Source: "homebrew", KeyBy: KeyName}
	rec = Record{Name: "wget", ImportID: "wget"}
	assert.Equal(t, "wget", homebrew.Key(rec))
	assert.Equal(t, "homebrew/wget", homebrew.DerivedID(rec))
	assert.Equal(t, "openssl@3", homebrew.TargetKey("openssl@3"))
}

func TestProfile_DependencyType(t *testing.T) {
	p := debianProfile()

	name, ok := p.DependencyType("build_depends")
	assert.True(t, ok)
	assert.Equal(t, DependencyBuild, name)

	name, ok = p.DependencyType(DependencyRuntime)
	assert.True(t, ok)
	assert.Equal(t, DependencyRuntime, name)

	_, ok = p.DependencyType("enhances")
	assert.False(t, ok)

	assert.Equal(t, []string{DependencyBuild, DependencyRuntime, DependencyTest}, p.DependencyTypeNames())
}

func TestNewTypes(t *testing.T) {
	urlTypes := map[string]string{URLTypeHomepage: urlHomepage}
	depTypes := map[string]string{
		DependencyRuntime: depRuntime,
		DependencyBuild:   depBuild,
		DependencyTest:    depTest,
	}

	t.Run("Resolves priority by id", func(t *testing.T) {
		types, err := NewTypes(debianProfile(), urlTypes, depTypes, map[string]int{
			DependencyRuntime: 1,
			DependencyBuild:   2,
			DependencyTest:    3,
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{depRuntime: 1, depBuild: 2, depTest: 3}, types.Priority)
	})

	t.Run("Unknown name in priority table", func(t *testing.T) {
		_, err := NewTypes(debianProfile(), urlTypes, depTypes, map[string]int{"bogus": 1})
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("Profile type without priority", func(t *testing.T) {
		_, err := NewTypes(debianProfile(), urlTypes, depTypes, map[string]int{DependencyRuntime: 1})
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("Profile type missing from store", func(t *testing.T) {
		_, err := NewTypes(debianProfile(), urlTypes, map[string]string{DependencyRuntime: depRuntime}, map[string]int{DependencyRuntime: 1})
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}
