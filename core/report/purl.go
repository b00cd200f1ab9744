package report

import (
	"strings"

	"github.com/package-url/packageurl-go"
)

type purlScheme struct {
	kind      string
	namespace string
}

var schemes = map[string]purlScheme{
	"debian":   {kind: packageurl.TypeDebian, namespace: "debian"},
	"crates":   {kind: packageurl.TypeCargo},
	"npm":      {kind: packageurl.TypeNPM},
	"homebrew": {kind: packageurl.TypeGeneric, namespace: "homebrew"},
	"pkgx":     {kind: packageurl.TypeGeneric, namespace: "pkgx"},
}

// PackageURL returns the purl of a package published by source. Sources
// without a registered purl type map to pkg:generic/<source>/<name>.
func PackageURL(source, name string) string {
	scheme, ok := schemes[source]
	if !ok {
		scheme = purlScheme{kind: packageurl.TypeGeneric, namespace: source}
	}

	namespace := scheme.namespace
	// scoped npm packages carry their scope as the namespace
	if scheme.kind == packageurl.TypeNPM && strings.HasPrefix(name, "@") {
		if scope, rest, found := strings.Cut(name, "/"); found {
			namespace, name = scope, rest
		}
	}

	return packageurl.NewPackageURL(scheme.kind, namespace, name, "", nil, "").ToString()
}
