package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/haexhub/haexpass/internal/common"
	"github.com/haexhub/haexpass/internal/dbx"
	"github.com/haexhub/haexpass/internal/logging"
	"github.com/haexhub/haexpass/internal/vault/models"
	"github.com/haexhub/haexpass/internal/vault/repositories/groups"
	"github.com/haexhub/haexpass/internal/vault/schema"
)

// GroupService manages the organizational tree: creation, listing, tree
// traversal, reparenting and the trash lifecycle.
type GroupService struct {
	db    *sql.DB
	t     schema.Tables
	log   logging.Logger
	cache cacheMarker
}

type cacheMarker interface {
	MarkStale()
}

// SelectionType tags an entry passed to InsertGroupItems.
type SelectionType string

const (
	SelectionGroup SelectionType = "group"
	SelectionItem  SelectionType = "item"
)

// Selection identifies a group or item to move in a batch.
type Selection struct {
	ID   string
	Type SelectionType
}

func (s *GroupService) guard() error {
	if s == nil || s.db == nil {
		return common.ErrNotInitialized
	}
	return nil
}

func (s *GroupService) repo(db dbx.DBTX) groups.Repository {
	return groups.NewSQLiteRepository(db, s.t)
}

// AddGroup persists a new group. A missing id is filled with a fresh UUID;
// a non-nil parent must reference an existing group.
func (s *GroupService) AddGroup(ctx context.Context, g models.Group) (*models.Group, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	r := s.repo(s.db)
	if g.ParentID != nil {
		parent, err := r.GetByID(ctx, *g.ParentID)
		if err != nil {
			return nil, persistence(err)
		}
		if parent == nil {
			return nil, fmt.Errorf("parent group %q does not exist: %w", *g.ParentID, common.ErrValidation)
		}
	}
	now := models.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	if err := r.Insert(ctx, &g); err != nil {
		return nil, persistence(err)
	}
	s.markStale()
	return &g, nil
}

// ReadGroup returns a group by id, or nil if it does not exist.
func (s *GroupService) ReadGroup(ctx context.Context, id string) (*models.Group, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	g, err := s.repo(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, persistence(err)
	}
	return g, nil
}

// ReadGroups returns every group ordered by sort rank, null ranks last.
func (s *GroupService) ReadGroups(ctx context.Context) ([]models.Group, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	gs, err := s.repo(s.db).GetAll(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	return gs, nil
}

// GetByParentID returns the direct children of parentID (the roots when
// nil). It is a degraded read: failures are logged and an empty slice is
// returned so tree rendering keeps working.
func (s *GroupService) GetByParentID(ctx context.Context, parentID *string) []models.Group {
	if err := s.guard(); err != nil {
		return []models.Group{}
	}
	gs, err := s.repo(s.db).GetByParentID(ctx, parentID)
	if err != nil {
		s.log.Error(ctx, "failed to read child groups", "error", err)
		return []models.Group{}
	}
	if gs == nil {
		gs = []models.Group{}
	}
	return gs
}

// GetChildGroupsRecursive returns every descendant of id. The traversal is
// iterative and keeps a visited set, so it terminates even on corrupted
// parent links that form a cycle.
func (s *GroupService) GetChildGroupsRecursive(ctx context.Context, id string) ([]models.Group, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	return descendantGroups(ctx, s.repo(s.db), id)
}

func descendantGroups(ctx context.Context, r groups.Repository, id string) ([]models.Group, error) {
	var result []models.Group
	visited := map[string]bool{id: true}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children, err := r.GetByParentID(ctx, &cur)
		if err != nil {
			return nil, persistence(err)
		}
		for _, c := range children {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			result = append(result, c)
			stack = append(stack, c.ID)
		}
	}
	return result, nil
}

// UpdateGroup replaces the stored row for g.ID. An empty id is a silent
// no-op.
func (s *GroupService) UpdateGroup(ctx context.Context, g models.Group) error {
	if err := s.guard(); err != nil {
		return err
	}
	if g.ID == "" {
		return nil
	}
	g.UpdatedAt = models.Now()
	if err := s.repo(s.db).Update(ctx, &g); err != nil {
		return persistence(err)
	}
	s.markStale()
	return nil
}

// DeleteGroup removes a group. Without final the group is reparented under
// the trash root, which is created on demand. With final, or when the target
// is the trash root itself, the group and all its descendants together with
// every item they contain are removed permanently in one transaction.
func (s *GroupService) DeleteGroup(ctx context.Context, id string, final bool) error {
	if err := s.guard(); err != nil {
		return err
	}
	if !final && id != TrashID {
		r := s.repo(s.db)
		if _, err := ensureTrash(ctx, r); err != nil {
			return err
		}
		g, err := r.GetByID(ctx, id)
		if err != nil {
			return persistence(err)
		}
		if g == nil {
			return nil
		}
		trash := TrashID
		g.ParentID = &trash
		g.UpdatedAt = models.Now()
		if err := r.Update(ctx, g); err != nil {
			return persistence(err)
		}
		s.markStale()
		return nil
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := groups.NewSQLiteRepository(tx, s.t)
		descendants, err := descendantGroups(ctx, r, id)
		if err != nil {
			return err
		}
		// Delete deepest first so no row ever references a removed parent.
		doomed := make([]string, 0, len(descendants)+1)
		doomed = append(doomed, id)
		for _, d := range descendants {
			doomed = append(doomed, d.ID)
		}
		for i := len(doomed) - 1; i >= 0; i-- {
			gid := doomed[i]
			members, err := r.GetGroupItems(ctx, &gid)
			if err != nil {
				return err
			}
			for _, m := range members {
				if err := deleteItemCascade(ctx, tx, s.t, m.ItemID); err != nil {
					return err
				}
			}
			if err := r.DeleteByID(ctx, gid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return persistence(err)
	}
	s.markStale()
	return nil
}

// CreateTrashIfNotExists lazily creates the trash root and reports whether
// it already existed.
func (s *GroupService) CreateTrashIfNotExists(ctx context.Context) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	created, err := ensureTrash(ctx, s.repo(s.db))
	if err != nil {
		return false, err
	}
	if created {
		s.markStale()
	}
	return !created, nil
}

func ensureTrash(ctx context.Context, r groups.Repository) (created bool, err error) {
	g, err := r.GetByID(ctx, TrashID)
	if err != nil {
		return false, persistence(err)
	}
	if g != nil {
		return false, nil
	}
	now := models.Now()
	trash := models.Group{
		ID:        TrashID,
		Name:      "Trash",
		Icon:      "mdi:trash-outline",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Insert(ctx, &trash); err != nil {
		return false, persistence(err)
	}
	return true, nil
}

// InsertGroupItems moves a batch of selections under targetGroupID (nil
// moves to the root / ungrouped). Group selections are reparented, item
// selections are regrouped; moving a group under itself or one of its own
// descendants is rejected.
func (s *GroupService) InsertGroupItems(ctx context.Context, selections []Selection, targetGroupID *string) error {
	if err := s.guard(); err != nil {
		return err
	}
	r := s.repo(s.db)
	if targetGroupID != nil {
		target, err := r.GetByID(ctx, *targetGroupID)
		if err != nil {
			return persistence(err)
		}
		if target == nil {
			return fmt.Errorf("target group %q does not exist: %w", *targetGroupID, common.ErrValidation)
		}
	}
	for _, sel := range selections {
		if sel.Type != SelectionGroup || targetGroupID == nil {
			continue
		}
		if sel.ID == *targetGroupID {
			return fmt.Errorf("cannot move group %q into itself: %w", sel.ID, common.ErrValidation)
		}
		descendants, err := descendantGroups(ctx, r, sel.ID)
		if err != nil {
			return err
		}
		for _, d := range descendants {
			if d.ID == *targetGroupID {
				return fmt.Errorf("cannot move group %q into its descendant %q: %w",
					sel.ID, *targetGroupID, common.ErrValidation)
			}
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tr := groups.NewSQLiteRepository(tx, s.t)
		for _, sel := range selections {
			switch sel.Type {
			case SelectionGroup:
				g, err := tr.GetByID(ctx, sel.ID)
				if err != nil {
					return err
				}
				if g == nil || optionalEqual(g.ParentID, targetGroupID) {
					continue
				}
				g.ParentID = targetGroupID
				g.UpdatedAt = models.Now()
				if err := tr.Update(ctx, g); err != nil {
					return err
				}
			case SelectionItem:
				if err := tr.UpdateGroupItemGroupID(ctx, sel.ID, targetGroupID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return persistence(err)
	}
	s.markStale()
	return nil
}

func (s *GroupService) markStale() {
	if s.cache != nil {
		s.cache.MarkStale()
	}
}
