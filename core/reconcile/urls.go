package reconcile

import (
	"time"

	"registry-sync/core/models"
)

// URLResolver maps desired (url, type) pairs to URL ids, minting new URLs
// when neither the current run nor the cache knows them.
type URLResolver struct {
	cache   *Cache
	pending map[URLKey]models.URL
	order   []URLKey
	now     func() time.Time
	newID   func() string
}

// NewURLResolver creates a resolver with an empty pending set.
func NewURLResolver(cache *Cache, now func() time.Time, newID func() string) *URLResolver {
	return &URLResolver{
		cache:   cache,
		pending: make(map[URLKey]models.URL),
		now:     now,
		newID:   newID,
	}
}

// Resolve returns url_type_id -> url_id for the desired pairs.
// Pending URLs are checked before the cache; a package declaring two URLs of
// the same type keeps the last one.
func (r *URLResolver) Resolve(desired []URLKey) map[string]string {
	resolved := make(map[string]string, len(desired))

	for _, key := range desired {
		if u, ok := r.pending[key]; ok {
			resolved[key.TypeID] = u.ID
			continue
		}
		if u, ok := r.cache.URL(key); ok {
			resolved[key.TypeID] = u.ID
			continue
		}

		now := r.now()
		u := models.URL{
			ID:        r.newID(),
			URL:       key.URL,
			URLTypeID: key.TypeID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.pending[key] = u
		r.order = append(r.order, key)
		resolved[key.TypeID] = u.ID
	}

	return resolved
}

// Pending returns the URLs minted so far, in mint order.
func (r *URLResolver) Pending() []models.URL {
	urls := make([]models.URL, 0, len(r.order))
	for _, key := range r.order {
		urls = append(urls, r.pending[key])
	}
	return urls
}
