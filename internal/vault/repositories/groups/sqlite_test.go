package groups

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haexhub/haexpass/internal/vault/models"
	"github.com/haexhub/haexpass/internal/vault/schema"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) (*sql.DB, schema.Tables) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tables := schema.New("test__pass__")
	require.NoError(t, schema.CreateTables(context.Background(), db, tables))
	return db, tables
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestInsertAndGetByID(t *testing.T) {
	db, tables := setupDB(t)
	r := NewSQLiteRepository(db, tables)
	ctx := context.Background()

	g := &models.Group{
		ID:        "g1",
		Name:      "Email",
		Icon:      "mdi:email",
		Color:     "#ff0000",
		Order:     intPtr(2),
		CreatedAt: models.Now(),
	}
	require.NoError(t, r.Insert(ctx, g))

	got, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Email", got.Name)
	assert.Equal(t, "#ff0000", got.Color)
	require.NotNil(t, got.Order)
	assert.Equal(t, 2, *got.Order)
	assert.Nil(t, got.ParentID)
}

func TestGetByID_MissingReturnsNil(t *testing.T) {
	db, tables := setupDB(t)
	r := NewSQLiteRepository(db, tables)

	got, err := r.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetAll_OrdersNullsLast(t *testing.T) {
	db, tables := setupDB(t)
	r := NewSQLiteRepository(db, tables)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &models.Group{ID: "unranked", Name: "c"}))
	require.NoError(t, r.Insert(ctx, &models.Group{ID: "second", Name: "b", Order: intPtr(2)}))
	require.NoError(t, r.Insert(ctx, &models.Group{ID: "first", Name: "a", Order: intPtr(1)}))

	got, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "unranked", got[2].ID)
}

func TestGetByParentID(t *testing.T) {
	db, tables := setupDB(t)
	r := NewSQLiteRepository(db, tables)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &models.Group{ID: "root"}))
	require.NoError(t, r.Insert(ctx, &models.Group{ID: "a", ParentID: strPtr("root")}))
	require.NoError(t, r.Insert(ctx, &models.Group{ID: "b", ParentID: strPtr("root")}))

	children, err := r.GetByParentID(ctx, strPtr("root"))
	require.NoError(t, err)
	assert.Len(t, children, 2)

	roots, err := r.GetByParentID(ctx, nil)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "root", roots[0].ID)
}

func TestUpdate_ReplacesRow(t *testing.T) {
	db, tables := setupDB(t)
	r := NewSQLiteRepository(db, tables)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &models.Group{ID: "g1", Name: "old"}))

	require.NoError(t, r.Update(ctx, &models.Group{
		ID:       "g1",
		Name:     "new",
		ParentID: strPtr("trash"),
	}))

	got, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.Name)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, "trash", *got.ParentID)
}

func TestDeleteByID(t *testing.T) {
	db, tables := setupDB(t)
	r := NewSQLiteRepository(db, tables)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &models.Group{ID: "g1"}))
	require.NoError(t, r.DeleteByID(ctx, "g1"))

	got, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGroupItems_Lifecycle(t *testing.T) {
	db, tables := setupDB(t)
	r := NewSQLiteRepository(db, tables)
	ctx := context.Background()

	require.NoError(t, r.InsertGroupItem(ctx, &models.GroupItem{ItemID: "i1", GroupID: strPtr("g1")}))
	require.NoError(t, r.InsertGroupItem(ctx, &models.GroupItem{ItemID: "i2"}))

	inGroup, err := r.GetGroupItems(ctx, strPtr("g1"))
	require.NoError(t, err)
	require.Len(t, inGroup, 1)
	assert.Equal(t, "i1", inGroup[0].ItemID)

	ungrouped, err := r.GetGroupItems(ctx, nil)
	require.NoError(t, err)
	require.Len(t, ungrouped, 1)
	assert.Equal(t, "i2", ungrouped[0].ItemID)

	// move i1 to another group; the single row is replaced, not appended
	require.NoError(t, r.UpdateGroupItemGroupID(ctx, "i1", strPtr("g2")))
	gi, err := r.GetGroupItemByItemID(ctx, "i1")
	require.NoError(t, err)
	require.NotNil(t, gi)
	require.NotNil(t, gi.GroupID)
	assert.Equal(t, "g2", *gi.GroupID)

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM "test__pass__haex_passwords_group_items" WHERE item_id = 'i1'`).Scan(&n))
	assert.Equal(t, 1, n)

	require.NoError(t, r.DeleteGroupItemByItemID(ctx, "i1"))
	gi, err = r.GetGroupItemByItemID(ctx, "i1")
	require.NoError(t, err)
	assert.Nil(t, gi)
}
