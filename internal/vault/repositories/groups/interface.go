package groups

import (
	"context"

	"github.com/haexhub/haexpass/internal/vault/models"
)

// Repository describes the statements issued against the groups and
// group_items tables. Implementations are backed by the relational handle
// supplied by the host.
type Repository interface {
	// Insert persists a new group row.
	Insert(ctx context.Context, g *models.Group) error

	// GetByID returns a group by id, or nil if it does not exist. A missing
	// group is an expected outcome, not an error.
	GetByID(ctx context.Context, id string) (*models.Group, error)

	// GetAll returns every group ordered by sort rank, null ranks last.
	GetAll(ctx context.Context) ([]models.Group, error)

	// GetByParentID returns the direct children of parentID ordered by sort
	// rank. A nil parentID selects the root groups.
	GetByParentID(ctx context.Context, parentID *string) ([]models.Group, error)

	// Update replaces the full row identified by g.ID.
	Update(ctx context.Context, g *models.Group) error

	// DeleteByID removes a single group row. Descendants are the caller's
	// concern.
	DeleteByID(ctx context.Context, id string) error

	// InsertGroupItem binds an item to a group (or to no group when GroupID
	// is nil).
	InsertGroupItem(ctx context.Context, gi *models.GroupItem) error

	// UpdateGroupItemGroupID replaces the group binding of an item.
	UpdateGroupItemGroupID(ctx context.Context, itemID string, groupID *string) error

	// DeleteGroupItemByItemID removes the membership row of an item.
	DeleteGroupItemByItemID(ctx context.Context, itemID string) error

	// GetGroupItems lists membership rows for a group; nil selects ungrouped
	// items.
	GetGroupItems(ctx context.Context, groupID *string) ([]models.GroupItem, error)

	// GetGroupItemByItemID returns the membership row of an item, or nil if
	// the item is unknown.
	GetGroupItemByItemID(ctx context.Context, itemID string) (*models.GroupItem, error)
}
