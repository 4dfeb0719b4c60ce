package items

import (
	"context"

	"github.com/haexhub/haexpass/internal/vault/models"
)

// Repository describes the statements issued against the item_details and
// item_key_values tables.
type Repository interface {
	// InsertDetails persists a new item row.
	InsertDetails(ctx context.Context, d *models.ItemDetails) error

	// GetDetailsByID returns an item by id, or nil if it does not exist.
	GetDetailsByID(ctx context.Context, id string) (*models.ItemDetails, error)

	// UpdateDetails replaces the full row identified by d.ID.
	UpdateDetails(ctx context.Context, d *models.ItemDetails) error

	// DeleteDetailsByID removes a single item row. Dependent rows are the
	// caller's concern.
	DeleteDetailsByID(ctx context.Context, id string) error

	// GetByGroupID returns the items bound to a group via group_items. A nil
	// groupID selects ungrouped items.
	GetByGroupID(ctx context.Context, groupID *string) ([]models.ItemDetails, error)

	// GetAll returns every item row.
	GetAll(ctx context.Context) ([]models.ItemDetails, error)

	// InsertKeyValue persists one extension field row.
	InsertKeyValue(ctx context.Context, kv *models.KeyValue) error

	// UpdateKeyValue replaces an extension field row by id.
	UpdateKeyValue(ctx context.Context, kv *models.KeyValue) error

	// DeleteKeyValueByID removes one extension field row.
	DeleteKeyValueByID(ctx context.Context, id string) error

	// DeleteKeyValuesByItemID removes every extension field of an item.
	DeleteKeyValuesByItemID(ctx context.Context, itemID string) error

	// GetKeyValuesByItemID lists the extension fields of an item.
	GetKeyValuesByItemID(ctx context.Context, itemID string) ([]models.KeyValue, error)
}
