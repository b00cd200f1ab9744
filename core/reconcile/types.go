package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"registry-sync/core/models"
)

// Record is one parsed upstream package, as produced by a parser.
type Record struct {
	// Name is the package name as published upstream.
	Name string `json:"name" yaml:"name" validate:"required"`

	// ImportID is the source-native identifier. Empty means "derive from Name".
	ImportID string `json:"import_id,omitempty" yaml:"import_id,omitempty"`

	// Description becomes the package readme.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// URLs lists declared URLs in upstream order.
	URLs []DeclaredURL `json:"urls,omitempty" yaml:"urls,omitempty" validate:"dive"`

	// Dependencies lists declared dependencies in upstream order.
	Dependencies []DeclaredDependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty" validate:"dive"`
}

// DeclaredURL is a raw URL and the name of its type (homepage, source, ...).
type DeclaredURL struct {
	URL  string `json:"url" yaml:"url" validate:"required"`
	Type string `json:"type" yaml:"type" validate:"required"`
}

// DeclaredDependency names a target package and the upstream relationship kind.
type DeclaredDependency struct {
	Name string `json:"name" yaml:"name" validate:"required"`
	Kind string `json:"kind" yaml:"kind" validate:"required"`
}

// KeyField selects which record field is the natural key.
type KeyField string

const (
	KeyName     KeyField = "name"
	KeyImportID KeyField = "import_id"
)

// Well-known type names.
const (
	URLTypeHomepage      = "homepage"
	URLTypeRepository    = "repository"
	URLTypeSource        = "source"
	URLTypeDocumentation = "documentation"

	DependencyRuntime     = "runtime"
	DependencyBuild       = "build"
	DependencyTest        = "test"
	DependencyDevelopment = "development"
	DependencyRecommended = "recommended"
	DependencyOptional    = "optional"
)

// Profile describes how the records of one package manager map onto the store.
type Profile struct {
	// Source is the source type, also the derived_id prefix.
	Source string

	// KeyBy selects the natural key.
	KeyBy KeyField

	// ImportIDPrefix is prepended to names to form import ids,
	// e.g. "debian/" turns "curl" into "debian/curl".
	ImportIDPrefix string

	// Kinds maps upstream relationship kinds to dependency type names.
	Kinds map[string]string

	// SourceIsRepository also declares a GitHub source URL as the repository.
	SourceIsRepository bool
}

// ImportID returns the import id of a record.
func (p Profile) ImportID(r Record) string {
	if r.ImportID != "" {
		return r.ImportID
	}
	return p.ImportIDPrefix + r.Name
}

// Key returns the natural key of a record.
func (p Profile) Key(r Record) string {
	if p.KeyBy == KeyImportID {
		return p.ImportID(r)
	}
	return r.Name
}

// TargetKey returns the natural key a dependency target name refers to.
func (p Profile) TargetKey(name string) string {
	if p.KeyBy == KeyImportID && !strings.HasPrefix(name, p.ImportIDPrefix) {
		return p.ImportIDPrefix + name
	}
	return name
}

// PackageKey returns the natural key of a stored package.
func (p Profile) PackageKey(pkg models.Package) string {
	if p.KeyBy == KeyImportID {
		return pkg.ImportID
	}
	return pkg.Name
}

// DerivedID returns the globally unique "{source}/{name}" identifier.
func (p Profile) DerivedID(r Record) string {
	return p.Source + "/" + r.Name
}

// DependencyType maps an upstream kind to a dependency type name.
// Canonical type names are accepted as-is.
func (p Profile) DependencyType(kind string) (string, bool) {
	if name, ok := p.Kinds[kind]; ok {
		return name, true
	}
	for _, name := range p.Kinds {
		if name == kind {
			return name, true
		}
	}
	return "", false
}

// DependencyTypeNames returns the distinct dependency type names the profile emits.
func (p Profile) DependencyTypeNames() []string {
	seen := make(map[string]struct{}, len(p.Kinds))
	names := make([]string, 0, len(p.Kinds))
	for _, name := range p.Kinds {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Types holds the store ids of every type a run may reference.
type Types struct {
	// URL maps url type names to ids.
	URL map[string]string

	// Dependency maps dependency type names to ids.
	Dependency map[string]string

	// Priority maps dependency type ids to their rank. Lower wins.
	Priority map[string]int
}

// NewTypes resolves a priority table keyed by name into one keyed by id and
// checks that every dependency type the profile emits is ranked.
func NewTypes(profile Profile, urlTypes, dependencyTypes map[string]string, priority map[string]int) (Types, error) {
	t := Types{
		URL:        urlTypes,
		Dependency: dependencyTypes,
		Priority:   make(map[string]int, len(priority)),
	}

	for name, rank := range priority {
		id, ok := dependencyTypes[name]
		if !ok {
			return Types{}, fmt.Errorf("%w: dependency type %q in priority table", ErrUnknownType, name)
		}
		t.Priority[id] = rank
	}

	for _, name := range profile.DependencyTypeNames() {
		id, ok := dependencyTypes[name]
		if !ok {
			return Types{}, fmt.Errorf("%w: dependency type %q used by %s", ErrUnknownType, name, profile.Source)
		}
		if _, ok := t.Priority[id]; !ok {
			return Types{}, fmt.Errorf("%w: dependency type %q has no priority", ErrUnknownType, name)
		}
	}

	return t, nil
}
