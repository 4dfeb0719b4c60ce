package groups

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

const groupColumns = `id, name, description, icon, color, "order", parent_id, created_at, updated_at`

func (r *SQLiteRepository) Insert(ctx context.Context, g *models.Group) error {
	query := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.t.Groups, groupColumns)
	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.Name, g.Description, g.Icon, g.Color,
		nullableInt(g.Order), nullableString(g.ParentID), g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM "%s" WHERE id = ?`, groupColumns, r.t.Groups)
	row := r.db.QueryRowContext(ctx, query, id)

	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select group: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Group, error) {
	query := fmt.Sprintf(`SELECT %s FROM "%s" ORDER BY "order" IS NULL, "order"`,
		groupColumns, r.t.Groups)
	return r.selectGroups(ctx, query)
}

func (r *SQLiteRepository) GetByParentID(ctx context.Context, parentID *string) ([]models.Group, error) {
	if parentID != nil {
		query := fmt.Sprintf(`SELECT %s FROM "%s" WHERE parent_id = ? ORDER BY "order" IS NULL, "order"`,
			groupColumns, r.t.Groups)
		return r.selectGroups(ctx, query, *parentID)
	}
	query := fmt.Sprintf(`SELECT %s FROM "%s" WHERE parent_id IS NULL ORDER BY "order" IS NULL, "order"`,
		groupColumns, r.t.Groups)
	return r.selectGroups(ctx, query)
}

func (r *SQLiteRepository) Update(ctx context.Context, g *models.Group) error {
	query := fmt.Sprintf(`UPDATE "%s"
		SET name = ?, description = ?, icon = ?, color = ?, "order" = ?, parent_id = ?, updated_at = ?
		WHERE id = ?`, r.t.Groups)
	_, err := r.db.ExecContext(ctx, query,
		g.Name, g.Description, g.Icon, g.Color,
		nullableInt(g.Order), nullableString(g.ParentID), g.UpdatedAt, g.ID)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE id = ?`, r.t.Groups)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) InsertGroupItem(ctx context.Context, gi *models.GroupItem) error {
	query := fmt.Sprintf(`INSERT INTO "%s" (item_id, group_id) VALUES (?, ?)`, r.t.GroupItems)
	_, err := r.db.ExecContext(ctx, query, gi.ItemID, nullableString(gi.GroupID))
	if err != nil {
		return fmt.Errorf("failed to insert group item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateGroupItemGroupID(ctx context.Context, itemID string, groupID *string) error {
	query := fmt.Sprintf(`UPDATE "%s" SET group_id = ? WHERE item_id = ?`, r.t.GroupItems)
	_, err := r.db.ExecContext(ctx, query, nullableString(groupID), itemID)
	if err != nil {
		return fmt.Errorf("failed to update group item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGroupItemByItemID(ctx context.Context, itemID string) error {
	query := fmt.Sprintf(`DELETE FROM "%s" WHERE item_id = ?`, r.t.GroupItems)
	if _, err := r.db.ExecContext(ctx, query, itemID); err != nil {
		return fmt.Errorf("failed to delete group item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetGroupItems(ctx context.Context, groupID *string) ([]models.GroupItem, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if groupID != nil {
		query := fmt.Sprintf(`SELECT item_id, group_id FROM "%s" WHERE group_id = ?`, r.t.GroupItems)
		rows, err = r.db.QueryContext(ctx, query, *groupID)
	} else {
		query := fmt.Sprintf(`SELECT item_id, group_id FROM "%s" WHERE group_id IS NULL`, r.t.GroupItems)
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select group items: %w", err)
	}
	defer rows.Close()

	var result []models.GroupItem
	for rows.Next() {
		var (
			gi  models.GroupItem
			gid sql.NullString
		)
		if err := rows.Scan(&gi.ItemID, &gid); err != nil {
			return nil, err
		}
		if gid.Valid {
			gi.GroupID = &gid.String
		}
		result = append(result, gi)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetGroupItemByItemID(ctx context.Context, itemID string) (*models.GroupItem, error) {
	query := fmt.Sprintf(`SELECT item_id, group_id FROM "%s" WHERE item_id = ?`, r.t.GroupItems)
	row := r.db.QueryRowContext(ctx, query, itemID)

	var (
		gi  models.GroupItem
		gid sql.NullString
	)
	err := row.Scan(&gi.ItemID, &gid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select group item: %w", err)
	}
	if gid.Valid {
		gi.GroupID = &gid.String
	}
	return &gi, nil
}

func (r *SQLiteRepository) selectGroups(ctx context.Context, query string, args ...any) ([]models.Group, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select groups: %w", err)
	}
	defer rows.Close()

	var result []models.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	var (
		g        models.Group
		order    sql.NullInt64
		parentID sql.NullString
		text     [6]sql.NullString // name, description, icon, color, created_at, updated_at
	)
	err := row.Scan(&g.ID, &text[0], &text[1], &text[2], &text[3],
		&order, &parentID, &text[4], &text[5])
	if err != nil {
		return nil, err
	}
	if order.Valid {
		o := int(order.Int64)
		g.Order = &o
	}
	if parentID.Valid {
		g.ParentID = &parentID.String
	}
	g.Name = text[0].String
	g.Description = text[1].String
	g.Icon = text[2].String
	g.Color = text[3].String
	g.CreatedAt = text[4].String
	g.UpdatedAt = text[5].String
	return &g, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
