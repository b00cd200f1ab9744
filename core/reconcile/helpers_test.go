package reconcile

import (
	"context"
	"fmt"
	"io"
	"time"

	"registry-sync/core/models"
)

const (
	urlHomepage   = "ut-homepage"
	urlRepository = "ut-repository"
	urlSource     = "ut-source"

	depRuntime = "dt-runtime"
	depBuild   = "dt-build"
	depTest    = "dt-test"

	pmDebian = "pm-debian"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func debianProfile() Profile {
	return Profile{
		Source: "debian",
		KeyBy:  KeyName,
		Kinds: map[string]string{
			"depends":       DependencyRuntime,
			"build_depends": DependencyBuild,
			"recommends":    DependencyRuntime,
			"test":          DependencyTest,
		},
		SourceIsRepository: true,
	}
}

func testTypes() Types {
	return Types{
		URL: map[string]string{
			URLTypeHomepage:   urlHomepage,
			URLTypeRepository: urlRepository,
			URLTypeSource:     urlSource,
		},
		Dependency: map[string]string{
			DependencyRuntime: depRuntime,
			DependencyBuild:   depBuild,
			DependencyTest:    depTest,
		},
		Priority: map[string]int{
			depRuntime: 1,
			depBuild:   2,
			depTest:    3,
		},
	}
}

// sequence returns an id generator producing prefix-1, prefix-2, ...
func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func newTestEngine(cache *Cache) *Engine {
	e, err := NewEngine(cache, Options{
		Profile:          debianProfile(),
		Types:            testTypes(),
		PackageManagerID: pmDebian,
		Now:              func() time.Time { return fixedNow },
		NewID:            sequence("new"),
	})
	if err != nil {
		panic(err)
	}
	return e
}

func pkg(id, name, readme string) models.Package {
	return models.Package{
		ID:               id,
		DerivedID:        "debian/" + name,
		Name:             name,
		ImportID:         name,
		PackageManagerID: pmDebian,
		Readme:           readme,
	}
}

func edge(id int64, from, to, typeID string) models.LegacyDependency {
	return models.LegacyDependency{
		ID:               id,
		PackageID:        from,
		DependencyID:     to,
		DependencyTypeID: typeID,
	}
}

func cacheOf(s Snapshot) *Cache {
	return NewCache(&s, debianProfile().PackageKey)
}

// sliceSource replays records in order.
type sliceSource struct {
	records []Record
	pos     int
}

func (s *sliceSource) Next(ctx context.Context) (Record, error) {
	if s.pos >= len(s.records) {
		return Record{}, io.EOF
	}
	r := s.records[s.pos]
	s.pos++
	return r, nil
}

// recordingIngester captures the batch it receives.
type recordingIngester struct {
	batches []*Batch
	err     error
}

func (r *recordingIngester) Ingest(ctx context.Context, b *Batch) error {
	r.batches = append(r.batches, b)
	return r.err
}

// apply folds a batch into a snapshot, emulating a successful ingest.
func apply(s Snapshot, b *Batch) Snapshot {
	out := Snapshot{
		Packages:    append([]models.Package(nil), s.Packages...),
		URLs:        append(append([]models.URL(nil), s.URLs...), b.NewURLs...),
		PackageURLs: append(append([]models.PackageURL(nil), s.PackageURLs...), b.NewPackageURLs...),
	}

	patches := make(map[string]PackagePatch)
	for _, p := range b.UpdatedPackages {
		patches[p.ID] = p
	}
	for i, p := range out.Packages {
		if patch, ok := patches[p.ID]; ok {
			out.Packages[i].Readme = patch.Readme
		}
	}
	out.Packages = append(out.Packages, b.NewPackages...)

	removed := make(map[int64]struct{})
	for _, d := range b.RemovedDependencies {
		removed[d.ID] = struct{}{}
	}
	for _, d := range s.Dependencies {
		if _, ok := removed[d.ID]; !ok {
			out.Dependencies = append(out.Dependencies, d)
		}
	}
	next := int64(1000)
	for _, d := range b.NewDependencies {
		next++
		d.ID = next
		out.Dependencies = append(out.Dependencies, d)
	}

	return out
}
