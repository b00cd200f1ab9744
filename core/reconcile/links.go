package reconcile

import (
	"sort"
	"time"

	"registry-sync/core/models"
)

// LinkPatch refreshes the updated_at of an existing package-URL link.
type LinkPatch struct {
	ID        string    `json:"id" yaml:"id"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// ReconcileLinks creates links for URLs the package does not have yet and
// touches the ones it already has.
func ReconcileLinks(packageID string, resolved map[string]string, existing []models.PackageURL, now time.Time, newID func() string) (created []models.PackageURL, touched []LinkPatch) {
	byURL := make(map[string]models.PackageURL, len(existing))
	for _, l := range existing {
		byURL[l.URLID] = l
	}

	// iterate types in a stable order so ids are minted deterministically
	typeIDs := make([]string, 0, len(resolved))
	for typeID := range resolved {
		typeIDs = append(typeIDs, typeID)
	}
	sort.Strings(typeIDs)

	seen := make(map[string]struct{}, len(resolved))
	for _, typeID := range typeIDs {
		urlID := resolved[typeID]
		if _, ok := seen[urlID]; ok {
			continue
		}
		seen[urlID] = struct{}{}

		if l, ok := byURL[urlID]; ok {
			touched = append(touched, LinkPatch{ID: l.ID, UpdatedAt: now})
			continue
		}

		created = append(created, models.PackageURL{
			ID:        newID(),
			PackageID: packageID,
			URLID:     urlID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return created, touched
}
