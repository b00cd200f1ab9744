package reconcile

import (
	"math"
	"sort"
	"time"

	"registry-sync/core/models"
)

// Declaration is a declared dependency whose target and type are resolved to ids.
type Declaration struct {
	DependencyID string
	TypeID       string
}

type edgeKey struct {
	dependencyID string
	typeID       string
}

func rank(priority map[string]int, typeID string) int {
	if r, ok := priority[typeID]; ok {
		return r
	}
	return math.MaxInt
}

// Collapse keeps one type per target: the one with the lowest rank.
// On equal rank the first declaration wins.
func Collapse(declared []Declaration, priority map[string]int) map[string]string {
	winner := make(map[string]string, len(declared))
	for _, d := range declared {
		current, ok := winner[d.DependencyID]
		if !ok || rank(priority, d.TypeID) < rank(priority, current) {
			winner[d.DependencyID] = d.TypeID
		}
	}
	return winner
}

// ReconcileDependencies diffs the collapsed declarations of a package against
// its cached edges. A type change yields one removal and one addition.
func ReconcileDependencies(packageID string, declared []Declaration, cached []models.LegacyDependency, priority map[string]int, now time.Time) (added, removed []models.LegacyDependency, err error) {
	actual := make(map[edgeKey]struct{})
	for dependencyID, typeID := range Collapse(declared, priority) {
		actual[edgeKey{dependencyID, typeID}] = struct{}{}
	}

	existing := make(map[edgeKey]models.LegacyDependency, len(cached))
	for _, edge := range cached {
		existing[edgeKey{edge.DependencyID, edge.DependencyTypeID}] = edge
	}

	for key := range actual {
		if _, ok := existing[key]; ok {
			continue
		}
		added = append(added, models.LegacyDependency{
			PackageID:        packageID,
			DependencyID:     key.dependencyID,
			DependencyTypeID: key.typeID,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	for key := range existing {
		if _, ok := actual[key]; ok {
			continue
		}
		edge, ok := findEdge(cached, key)
		if !ok {
			return nil, nil, &IntegrityError{
				PackageID:        packageID,
				DependencyID:     key.dependencyID,
				DependencyTypeID: key.typeID,
			}
		}
		removed = append(removed, edge)
	}

	sortEdges(added)
	sortEdges(removed)
	return added, removed, nil
}

func findEdge(cached []models.LegacyDependency, key edgeKey) (models.LegacyDependency, bool) {
	for _, edge := range cached {
		if edge.DependencyID == key.dependencyID && edge.DependencyTypeID == key.typeID {
			return edge, true
		}
	}
	return models.LegacyDependency{}, false
}

func sortEdges(edges []models.LegacyDependency) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].DependencyID != edges[j].DependencyID {
			return edges[i].DependencyID < edges[j].DependencyID
		}
		return edges[i].DependencyTypeID < edges[j].DependencyTypeID
	})
}
