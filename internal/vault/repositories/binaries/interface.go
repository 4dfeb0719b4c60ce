package binaries

import (
	"context"

	"github.com/haexhub/haexpass/internal/vault/models"
)

// Repository describes the statements issued against the binaries and
// item_binaries tables.
type Repository interface {
	// Insert persists a blob row. The caller guarantees the hash matches the
	// data; duplicate hashes are the caller's dedup concern.
	Insert(ctx context.Context, b *models.Binary) error

	// GetByHash returns a blob by its hash, or nil if it does not exist.
	GetByHash(ctx context.Context, hash string) (*models.Binary, error)

	// DeleteOrphans removes every blob whose hash is referenced by neither an
	// item binding nor a snapshot binding, and returns how many were removed.
	// An empty reference union makes every blob eligible.
	DeleteOrphans(ctx context.Context) (int64, error)

	// InsertItemBinary persists a live attachment binding.
	InsertItemBinary(ctx context.Context, ib *models.ItemBinary) error

	// UpdateItemBinary replaces the filename/hash of a binding by id.
	UpdateItemBinary(ctx context.Context, ib *models.ItemBinary) error

	// DeleteItemBinaryByID removes one binding.
	DeleteItemBinaryByID(ctx context.Context, id string) error

	// DeleteItemBinariesByItemID removes every binding of an item.
	DeleteItemBinariesByItemID(ctx context.Context, itemID string) error

	// GetItemBinariesByItemID lists the raw bindings of an item.
	GetItemBinariesByItemID(ctx context.Context, itemID string) ([]models.ItemBinary, error)

	// GetAttachmentsByItemID lists the bindings of an item joined with the
	// blob rows, surfacing the deduplicated size.
	GetAttachmentsByItemID(ctx context.Context, itemID string) ([]models.Attachment, error)
}
