package snapshots

import (
	"context"

	"github.com/haexhub/haexpass/internal/vault/models"
)

// Repository describes the statements issued against the item_snapshots and
// snapshot_binaries tables. There is deliberately no update operation;
// snapshots are append-only.
type Repository interface {
	// Insert persists a new snapshot row.
	Insert(ctx context.Context, s *models.Snapshot) error

	// GetByItemID returns the full history of an item ordered by creation
	// time, oldest first.
	GetByItemID(ctx context.Context, itemID string) ([]models.Snapshot, error)

	// DeleteByItemID removes every snapshot of an item together with the
	// frozen attachment bindings of those snapshots.
	DeleteByItemID(ctx context.Context, itemID string) error

	// InsertSnapshotBinary freezes an attachment binding into a snapshot.
	InsertSnapshotBinary(ctx context.Context, sb *models.SnapshotBinary) error

	// GetSnapshotBinaries lists the frozen bindings of a snapshot.
	GetSnapshotBinaries(ctx context.Context, snapshotID string) ([]models.SnapshotBinary, error)
}
