package items

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

const detailColumns = `id, title, username, password, note, icon, tags, url, otp_secret, created_at, updated_at`

func (r *SQLiteRepository) InsertDetails(ctx context.Context, d *models.ItemDetails) error {
	query := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.t.ItemDetails, detailColumns)
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.Title, d.Username, d.Password, d.Note, d.Icon, d.Tags, d.URL, d.OtpSecret,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetDetailsByID(ctx context.Context, id string) (*models.ItemDetails, error) {
	query := fmt.Sprintf(`SELECT %s FROM "%s" WHERE id = ?`, detailColumns, r.t.ItemDetails)
	row := r.db.QueryRowContext(ctx, query, id)

	d, err := scanDetails(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select item: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) UpdateDetails(ctx context.Context, d *models.ItemDetails) error {
	query := fmt.Sprintf(`UPDATE "%s"
		SET title = ?, username = ?, password = ?, note = ?, icon = ?, tags = ?, url = ?, otp_secret = ?, updated_at = ?
		WHERE id = ?`, r.t.ItemDetails)
	_, err := r.db.ExecContext(ctx, query,
		d.Title, d.Username, d.Password, d.Note, d.Icon, d.Tags, d.URL, d.OtpSecret,
		d.UpdatedAt, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteDetailsByID(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE id = ?`, r.t.ItemDetails)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByGroupID(ctx context.Context, groupID *string) ([]models.ItemDetails, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if groupID != nil {
		query := fmt.Sprintf(`SELECT %s FROM "%s" d
			INNER JOIN "%s" gi ON gi.item_id = d.id
			WHERE gi.group_id = ?`, prefixedDetailColumns("d"), r.t.ItemDetails, r.t.GroupItems)
		rows, err = r.db.QueryContext(ctx, query, *groupID)
	} else {
		query := fmt.Sprintf(`SELECT %s FROM "%s" d
			INNER JOIN "%s" gi ON gi.item_id = d.id
			WHERE gi.group_id IS NULL`, prefixedDetailColumns("d"), r.t.ItemDetails, r.t.GroupItems)
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select items by group: %w", err)
	}
	defer rows.Close()

	var result []models.ItemDetails
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.ItemDetails, error) {
	query := fmt.Sprintf(`SELECT %s FROM "%s" ORDER BY title`, detailColumns, r.t.ItemDetails)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	defer rows.Close()

	var result []models.ItemDetails
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) InsertKeyValue(ctx context.Context, kv *models.KeyValue) error {
	query := fmt.Sprintf(`INSERT INTO "%s" (id, item_id, key, value, updated_at) VALUES (?, ?, ?, ?, ?)`,
		r.t.ItemKeyValues)
	_, err := r.db.ExecContext(ctx, query, kv.ID, kv.ItemID, kv.Key, kv.Value, kv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert key value: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateKeyValue(ctx context.Context, kv *models.KeyValue) error {
	query := fmt.Sprintf(`UPDATE "%s" SET key = ?, value = ?, updated_at = ? WHERE id = ?`,
		r.t.ItemKeyValues)
	_, err := r.db.ExecContext(ctx, query, kv.Key, kv.Value, kv.UpdatedAt, kv.ID)
	if err != nil {
		return fmt.Errorf("failed to update key value: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteKeyValueByID(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE id = ?`, r.t.ItemKeyValues)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete key value: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteKeyValuesByItemID(ctx context.Context, itemID string) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE item_id = ?`, r.t.ItemKeyValues)
	if _, err := r.db.ExecContext(ctx, query, itemID); err != nil {
		return fmt.Errorf("failed to delete key values: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetKeyValuesByItemID(ctx context.Context, itemID string) ([]models.KeyValue, error) {
	query := fmt.Sprintf(`SELECT id, item_id, key, value, updated_at FROM "%s" WHERE item_id = ?`,
		r.t.ItemKeyValues)
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to select key values: %w", err)
	}
	defer rows.Close()

	var result []models.KeyValue
	for rows.Next() {
		var (
			kv        models.KeyValue
			key       sql.NullString
			value     sql.NullString
			updatedAt sql.NullString
		)
		if err := rows.Scan(&kv.ID, &kv.ItemID, &key, &value, &updatedAt); err != nil {
			return nil, err
		}
		kv.Key = key.String
		kv.Value = value.String
		kv.UpdatedAt = updatedAt.String
		result = append(result, kv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetails(row rowScanner) (*models.ItemDetails, error) {
	var (
		d    models.ItemDetails
		text [10]sql.NullString
	)
	err := row.Scan(&d.ID, &text[0], &text[1], &text[2], &text[3], &text[4],
		&text[5], &text[6], &text[7], &text[8], &text[9])
	if err != nil {
		return nil, err
	}
	d.Title = text[0].String
	d.Username = text[1].String
	d.Password = text[2].String
	d.Note = text[3].String
	d.Icon = text[4].String
	d.Tags = text[5].String
	d.URL = text[6].String
	d.OtpSecret = text[7].String
	d.CreatedAt = text[8].String
	d.UpdatedAt = text[9].String
	return &d, nil
}

func prefixedDetailColumns(alias string) string {
	return fmt.Sprintf(
		"%[1]s.id, %[1]s.title, %[1]s.username, %[1]s.password, %[1]s.note, %[1]s.icon, %[1]s.tags, %[1]s.url, %[1]s.otp_secret, %[1]s.created_at, %[1]s.updated_at",
		alias)
}
