package managers

import (
	"errors"
	"fmt"
	"sort"

	"registry-sync/core/reconcile"
)

// ErrUnknownManager is returned for a source without a profile.
var ErrUnknownManager = errors.New("unknown package manager")

const (
	Debian   = "debian"
	Homebrew = "homebrew"
	Crates   = "crates"
	Pkgx     = "pkgx"
	NPM      = "npm"
)

var profiles = map[string]reconcile.Profile{
	// debian import ids are "debian/<name>"
	Debian: {
		Source:         Debian,
		KeyBy:          reconcile.KeyImportID,
		ImportIDPrefix: "debian/",
		Kinds: map[string]string{
			"depends":       reconcile.DependencyRuntime,
			"pre_depends":   reconcile.DependencyRuntime,
			"build_depends": reconcile.DependencyBuild,
			"recommends":    reconcile.DependencyRuntime,
			"suggests":      reconcile.DependencyRuntime,
		},
		SourceIsRepository: true,
	},
	Homebrew: {
		Source: Homebrew,
		KeyBy:  reconcile.KeyName,
		Kinds: map[string]string{
			"dependencies":             reconcile.DependencyRuntime,
			"build_dependencies":       reconcile.DependencyBuild,
			"test_dependencies":        reconcile.DependencyTest,
			"recommended_dependencies": reconcile.DependencyRecommended,
			"optional_dependencies":    reconcile.DependencyOptional,
		},
	},
	Crates: {
		Source: Crates,
		KeyBy:  reconcile.KeyName,
		Kinds: map[string]string{
			"normal": reconcile.DependencyRuntime,
			"build":  reconcile.DependencyBuild,
			"dev":    reconcile.DependencyDevelopment,
		},
	},
	Pkgx: {
		Source: Pkgx,
		KeyBy:  reconcile.KeyName,
		Kinds: map[string]string{
			"dependencies": reconcile.DependencyRuntime,
			"build":        reconcile.DependencyBuild,
			"test":         reconcile.DependencyTest,
		},
		SourceIsRepository: true,
	},
	NPM: {
		Source: NPM,
		KeyBy:  reconcile.KeyName,
		Kinds: map[string]string{
			"dependencies":         reconcile.DependencyRuntime,
			"peerDependencies":     reconcile.DependencyRuntime,
			"optionalDependencies": reconcile.DependencyOptional,
			"devDependencies":      reconcile.DependencyDevelopment,
		},
	},
}

// GetProfileByName returns the profile of a source.
func GetProfileByName(name string) (reconcile.Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return reconcile.Profile{}, fmt.Errorf("%w: %q", ErrUnknownManager, name)
	}
	return p, nil
}

// Names returns every supported source, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// URLTypes returns the url type names every manager may declare.
func URLTypes() []string {
	return []string{
		reconcile.URLTypeHomepage,
		reconcile.URLTypeRepository,
		reconcile.URLTypeSource,
		reconcile.URLTypeDocumentation,
	}
}

// DependencyTypes returns the distinct dependency type names of all profiles, sorted.
func DependencyTypes() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, p := range profiles {
		for _, name := range p.DependencyTypeNames() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
