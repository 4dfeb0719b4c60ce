// Package cache holds an explicit in-memory copy of the group and item
// listings. Reads from the engine never go through the cache implicitly; the
// owner decides when to load and the services only mark it stale after
// mutations.
package cache

import (
	"context"
	"sync"

	"github.com/haexhub/haexpass/internal/vault/models"
)

// Listings is the cached read model: the full group tree plus every item row.
type Listings struct {
	Groups []models.Group
	Items  []models.ItemDetails
}

// LoadFunc produces a fresh Listings from the store.
type LoadFunc func(ctx context.Context) (Listings, error)

// Cache is a stale-marking listings cache. It starts stale and reloads via
// the supplied loader on the next Get after any MarkStale.
type Cache struct {
	mu       sync.Mutex
	stale    bool
	listings Listings
}

// New returns an empty cache that reloads on first use.
func New() *Cache {
	return &Cache{stale: true}
}

// MarkStale flags the cached listings as outdated. The next Get reloads.
func (c *Cache) MarkStale() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Get returns the cached listings, reloading through load first if a
// mutation invalidated them. A load error leaves the cache stale so a later
// Get retries.
func (c *Cache) Get(ctx context.Context, load LoadFunc) (Listings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.stale {
		return c.listings, nil
	}
	l, err := load(ctx)
	if err != nil {
		return Listings{}, err
	}
	c.listings = l
	c.stale = false
	return l, nil
}
