package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haexhub/haexpass/internal/common"
	"github.com/haexhub/haexpass/internal/logging"
	"github.com/haexhub/haexpass/internal/vault/cache"
	"github.com/haexhub/haexpass/internal/vault/repositories/groups"
	"github.com/haexhub/haexpass/internal/vault/repositories/items"
	"github.com/haexhub/haexpass/internal/vault/schema"
)

// TrashID is the reserved id of the trash root group. Soft deletes reparent
// or regroup into it; deleting it (or deleting with final=true) is permanent.
const TrashID = "trash"

// Vault bundles the services over a single database handle, table set and
// listings cache.
type Vault struct {
	Groups   *GroupService
	Items    *ItemService
	Binaries *BinaryService

	db *sql.DB
	t  schema.Tables
	c  *cache.Cache
}

// New wires the services. The cache may be nil when the host does not keep
// listings in memory.
func New(db *sql.DB, t schema.Tables, log logging.Logger, c *cache.Cache) *Vault {
	return &Vault{
		Groups:   &GroupService{db: db, t: t, log: log, cache: c},
		Items:    &ItemService{db: db, t: t, log: log, cache: c},
		Binaries: &BinaryService{db: db, t: t, log: log},
		db:       db,
		t:        t,
		c:        c,
	}
}

// Listings returns the cached group and item listings, reloading them from
// the store if a mutation marked the cache stale.
func (v *Vault) Listings(ctx context.Context) (cache.Listings, error) {
	if v == nil || v.db == nil {
		return cache.Listings{}, common.ErrNotInitialized
	}
	if v.c == nil {
		return v.loadListings(ctx)
	}
	return v.c.Get(ctx, v.loadListings)
}

func (v *Vault) loadListings(ctx context.Context) (cache.Listings, error) {
	gs, err := groups.NewSQLiteRepository(v.db, v.t).GetAll(ctx)
	if err != nil {
		return cache.Listings{}, persistence(err)
	}
	is, err := items.NewSQLiteRepository(v.db, v.t).GetAll(ctx)
	if err != nil {
		return cache.Listings{}, persistence(err)
	}
	return cache.Listings{Groups: gs, Items: is}, nil
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", common.ErrPersistence, err)
}

func optionalEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
