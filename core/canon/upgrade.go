package canon

import (
	"sort"
	"time"

	"registry-sync/core/models"
)

// Analyze returns package id -> canonical homepage for every package whose
// homepages are all non-canonical. The canonical form of the first homepage
// is chosen. It is dropped when it already exists or was already planned
// for another package in the same pass.
func Analyze(homepages map[string][]string, existing map[string]struct{}) map[string]string {
	ids := make([]string, 0, len(homepages))
	for id := range homepages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	planned := make(map[string]string)
	creating := make(map[string]struct{})

	for _, id := range ids {
		urls := homepages[id]
		if len(urls) == 0 || anyCanonical(urls) {
			continue
		}

		canonical, err := Normalize(urls[0])
		if err != nil {
			continue
		}
		if _, ok := existing[canonical]; ok {
			continue
		}
		if _, ok := creating[canonical]; ok {
			continue
		}

		planned[id] = canonical
		creating[canonical] = struct{}{}
	}

	return planned
}

// Plan builds the URL rows and links for the output of Analyze.
func Plan(planned map[string]string, homepageTypeID string, now time.Time, newID func() string) ([]models.URL, []models.PackageURL) {
	ids := make([]string, 0, len(planned))
	for id := range planned {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	urls := make([]models.URL, 0, len(ids))
	links := make([]models.PackageURL, 0, len(ids))

	for _, packageID := range ids {
		u := models.URL{
			ID:        newID(),
			URL:       planned[packageID],
			URLTypeID: homepageTypeID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		urls = append(urls, u)
		links = append(links, models.PackageURL{
			ID:        newID(),
			PackageID: packageID,
			URLID:     u.ID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return urls, links
}

func anyCanonical(urls []string) bool {
	for _, u := range urls {
		if IsCanonical(u) {
			return true
		}
	}
	return false
}
