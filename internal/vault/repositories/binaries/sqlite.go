package binaries

import (
	"context"
	"database/sql"
	"errors"
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

func (r *SQLiteRepository) Insert(ctx context.Context, b *models.Binary) error {
	query := fmt.Sprintf(`INSERT INTO "%s" (hash, data, size, created_at) VALUES (?, ?, ?, ?)`,
		r.t.Binaries)
	_, err := r.db.ExecContext(ctx, query, b.Hash, b.Data, b.Size, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert binary: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByHash(ctx context.Context, hash string) (*models.Binary, error) {
	query := fmt.Sprintf(`SELECT hash, data, size, created_at FROM "%s" WHERE hash = ?`, r.t.Binaries)
	row := r.db.QueryRowContext(ctx, query, hash)

	var (
		b         models.Binary
		createdAt sql.NullString
	)
	err := row.Scan(&b.Hash, &b.Data, &b.Size, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select binary: %w", err)
	}
	b.CreatedAt = createdAt.String
	return &b, nil
}

// DeleteOrphans is a single statement so the reference union and the delete
// are computed under the same transaction snapshot.
func (r *SQLiteRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE hash NOT IN (
		SELECT binary_hash FROM "%s"
		UNION
		SELECT binary_hash FROM "%s"
	)`, r.t.Binaries, r.t.ItemBinaries, r.t.SnapshotBinaries)

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned binaries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) InsertItemBinary(ctx context.Context, ib *models.ItemBinary) error {
	query := fmt.Sprintf(`INSERT INTO "%s" (id, item_id, binary_hash, file_name) VALUES (?, ?, ?, ?)`,
		r.t.ItemBinaries)
	_, err := r.db.ExecContext(ctx, query, ib.ID, ib.ItemID, ib.BinaryHash, ib.FileName)
	if err != nil {
		return fmt.Errorf("failed to insert item binary: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateItemBinary(ctx context.Context, ib *models.ItemBinary) error {
	query := fmt.Sprintf(`UPDATE "%s" SET binary_hash = ?, file_name = ? WHERE id = ?`,
		r.t.ItemBinaries)
	_, err := r.db.ExecContext(ctx, query, ib.BinaryHash, ib.FileName, ib.ID)
	if err != nil {
		return fmt.Errorf("failed to update item binary: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteItemBinaryByID(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE id = ?`, r.t.ItemBinaries)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete item binary: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteItemBinariesByItemID(ctx context.Context, itemID string) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE item_id = ?`, r.t.ItemBinaries)
	if _, err := r.db.ExecContext(ctx, query, itemID); err != nil {
		return fmt.Errorf("failed to delete item binaries: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetItemBinariesByItemID(ctx context.Context, itemID string) ([]models.ItemBinary, error) {
	query := fmt.Sprintf(`SELECT id, item_id, binary_hash, file_name FROM "%s" WHERE item_id = ?`,
		r.t.ItemBinaries)
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to select item binaries: %w", err)
	}
	defer rows.Close()

	var result []models.ItemBinary
	for rows.Next() {
		var ib models.ItemBinary
		if err := rows.Scan(&ib.ID, &ib.ItemID, &ib.BinaryHash, &ib.FileName); err != nil {
			return nil, err
		}
		result = append(result, ib)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetAttachmentsByItemID(ctx context.Context, itemID string) ([]models.Attachment, error) {
	query := fmt.Sprintf(`SELECT ib.id, ib.item_id, ib.binary_hash, ib.file_name, b.size
		FROM "%s" ib
		INNER JOIN "%s" b ON b.hash = ib.binary_hash
		WHERE ib.item_id = ?`, r.t.ItemBinaries, r.t.Binaries)
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to select attachments: %w", err)
	}
	defer rows.Close()

	var result []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.ItemID, &a.BinaryHash, &a.FileName, &a.Size); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
