package snapshots

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haexhub/haexpass/internal/dbx"
	"github.com/haexhub/haexpass/internal/vault/models"
	"github.com/haexhub/haexpass/internal/vault/schema"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx) against the prefixed vault tables.
type SQLiteRepository struct {
	db dbx.DBTX
	t  schema.Tables
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX
// and table set.
func NewSQLiteRepository(db dbx.DBTX, t schema.Tables) *SQLiteRepository {
	return &SQLiteRepository{db: db, t: t}
}

func (r *SQLiteRepository) Insert(ctx context.Context, s *models.Snapshot) error {
	query := fmt.Sprintf(`INSERT INTO "%s" (id, item_id, snapshot_data, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)`, r.t.ItemSnapshots)
	_, err := r.db.ExecContext(ctx, query, s.ID, s.ItemID, s.SnapshotData, s.CreatedAt, s.ModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByItemID(ctx context.Context, itemID string) ([]models.Snapshot, error) {
	query := fmt.Sprintf(`SELECT id, item_id, snapshot_data, created_at, modified_at
		FROM "%s" WHERE item_id = ? ORDER BY created_at`, r.t.ItemSnapshots)
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to select snapshots: %w", err)
	}
	defer rows.Close()

	var result []models.Snapshot
	for rows.Next() {
		var (
			s          models.Snapshot
			createdAt  sql.NullString
			modifiedAt sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.ItemID, &s.SnapshotData, &createdAt, &modifiedAt); err != nil {
			return nil, err
		}
		s.CreatedAt = createdAt.String
		s.ModifiedAt = modifiedAt.String
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByItemID(ctx context.Context, itemID string) error {
	// frozen bindings first, then the snapshot rows they point at
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE snapshot_id IN (
		SELECT id FROM "%s" WHERE item_id = ?
	)`, r.t.SnapshotBinaries, r.t.ItemSnapshots)
	if _, err := r.db.ExecContext(ctx, query, itemID); err != nil {
		return fmt.Errorf("failed to delete snapshot binaries: %w", err)
	}

	query = fmt.Sprintf(`DELETE FROM "%s" WHERE item_id = ?`, r.t.ItemSnapshots)
	if _, err := r.db.ExecContext(ctx, query, itemID); err != nil {
		return fmt.Errorf("failed to delete snapshots: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertSnapshotBinary(ctx context.Context, sb *models.SnapshotBinary) error {
	query := fmt.Sprintf(`INSERT INTO "%s" (id, snapshot_id, binary_hash, file_name) VALUES (?, ?, ?, ?)`,
		r.t.SnapshotBinaries)
	_, err := r.db.ExecContext(ctx, query, sb.ID, sb.SnapshotID, sb.BinaryHash, sb.FileName)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot binary: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetSnapshotBinaries(ctx context.Context, snapshotID string) ([]models.SnapshotBinary, error) {
	query := fmt.Sprintf(`SELECT id, snapshot_id, binary_hash, file_name FROM "%s" WHERE snapshot_id = ?`,
		r.t.SnapshotBinaries)
	rows, err := r.db.QueryContext(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to select snapshot binaries: %w", err)
	}
	defer rows.Close()

	var result []models.SnapshotBinary
	for rows.Next() {
		var sb models.SnapshotBinary
		if err := rows.Scan(&sb.ID, &sb.SnapshotID, &sb.BinaryHash, &sb.FileName); err != nil {
			return nil, err
		}
		result = append(result, sb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
