package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haexhub/haexpass/internal/common"
	"github.com/haexhub/haexpass/internal/vault/models"
)

func TestAddItemWritesInitialSnapshot(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	g, err := v.Groups.AddGroup(ctx, models.Group{Name: "Email", Icon: "mdi:email"})
	require.NoError(t, err)

	id, err := v.Items.AddItem(ctx, models.ItemDetails{Title: "example.com", Username: "alice"},
		[]models.KeyValue{{Key: "pin", Value: "1234"}}, g)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	view, err := v.Items.ReadItem(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "example.com", view.Details.Title)
	assert.Equal(t, "mdi:email", view.Details.Icon)
	require.Len(t, view.KeyValues, 1)
	assert.Equal(t, "pin", view.KeyValues[0].Key)
	require.Len(t, view.Snapshots, 1)

	data, err := models.UnmarshalSnapshotData(view.Snapshots[0].SnapshotData)
	require.NoError(t, err)
	assert.Equal(t, "example.com", data.Title)
	require.Len(t, data.KeyValues, 1)
	assert.Equal(t, "1234", data.KeyValues[0].Value)
}

func TestReadItemMissingIsNil(t *testing.T) {
	v := setupVault(t)

	view, err := v.Items.ReadItem(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestUpdateItemSnapshotsNewStateAndKeepsOld(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	id, err := v.Items.AddItem(ctx, models.ItemDetails{Title: "old title"}, nil, nil)
	require.NoError(t, err)

	view, err := v.Items.ReadItem(ctx, id)
	require.NoError(t, err)

	details := view.Details
	details.Title = "new title"
	require.NoError(t, v.Items.UpdateItem(ctx, ItemUpdate{
		Details:      details,
		KeyValuesAdd: []models.KeyValue{{Key: "pin", Value: "1234"}},
	}))

	view, err = v.Items.ReadItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new title", view.Details.Title)
	require.Len(t, view.KeyValues, 1)
	require.Len(t, view.Snapshots, 2)

	first, err := models.UnmarshalSnapshotData(view.Snapshots[0].SnapshotData)
	require.NoError(t, err)
	assert.Equal(t, "old title", first.Title)
	assert.Empty(t, first.KeyValues)

	second, err := models.UnmarshalSnapshotData(view.Snapshots[1].SnapshotData)
	require.NoError(t, err)
	assert.Equal(t, "new title", second.Title)
	require.Len(t, second.KeyValues, 1)
}

func TestUpdateItemUnchangedIsNoOp(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	g, err := v.Groups.AddGroup(ctx, models.Group{Name: "g"})
	require.NoError(t, err)
	id, err := v.Items.AddItem(ctx, models.ItemDetails{Title: "same"},
		[]models.KeyValue{{Key: "pin", Value: "1234"}}, g)
	require.NoError(t, err)

	view, err := v.Items.ReadItem(ctx, id)
	require.NoError(t, err)

	require.NoError(t, v.Items.UpdateItem(ctx, ItemUpdate{
		Details:   view.Details,
		GroupID:   &g.ID,
		KeyValues: view.KeyValues,
	}))

	after, err := v.Items.ReadItem(ctx, id)
	require.NoError(t, err)
	assert.Len(t, after.Snapshots, 1)
	assert.Equal(t, view.Details.UpdatedAt, after.Details.UpdatedAt)
}

func TestUpdateItemEmptyIDIsNoOp(t *testing.T) {
	v := setupVault(t)
	require.NoError(t, v.Items.UpdateItem(context.Background(), ItemUpdate{}))
}

func TestUpdateItemMovesGroup(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	a, err := v.Groups.AddGroup(ctx, models.Group{Name: "a"})
	require.NoError(t, err)
	b, err := v.Groups.AddGroup(ctx, models.Group{Name: "b"})
	require.NoError(t, err)
	id, err := v.Items.AddItem(ctx, models.ItemDetails{Title: "mover"}, nil, a)
	require.NoError(t, err)

	view, err := v.Items.ReadItem(ctx, id)
	require.NoError(t, err)
	require.NoError(t, v.Items.UpdateItem(ctx, ItemUpdate{Details: view.Details, GroupID: &b.ID}))

	inB, err := v.Items.ReadItemsByGroup(ctx, &b.ID)
	require.NoError(t, err)
	require.Len(t, inB, 1)
	assert.Equal(t, id, inB[0].ID)

	inA, err := v.Items.ReadItemsByGroup(ctx, &a.ID)
	require.NoError(t, err)
	assert.Empty(t, inA)
}

func TestUpdateItemFreezesAttachmentsIntoSnapshot(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	hash, err := v.Binaries.AddBinary(ctx, []byte("report body"))
	require.NoError(t, err)

	id, err := v.Items.AddItem(ctx, models.ItemDetails{Title: "with file"}, nil, nil)
	require.NoError(t, err)

	view, err := v.Items.ReadItem(ctx, id)
	require.NoError(t, err)
	require.NoError(t, v.Items.UpdateItem(ctx, ItemUpdate{
		Details:        view.Details,
		AttachmentsAdd: []models.ItemBinary{{BinaryHash: hash, FileName: "report.pdf"}},
	}))

	view, err = v.Items.ReadItem(ctx, id)
	require.NoError(t, err)
	require.Len(t, view.Attachments, 1)
	assert.Equal(t, hash, view.Attachments[0].BinaryHash)
	assert.Equal(t, int64(len("report body")), view.Attachments[0].Size)
	require.Len(t, view.Snapshots, 2)

	// Deleting the live binding keeps the blob referenced via the frozen
	// snapshot binding, so the orphan sweep must not touch it.
	require.NoError(t, v.Items.UpdateItem(ctx, ItemUpdate{
		Details:           view.Details,
		AttachmentsDelete: []models.ItemBinary{{ID: view.Attachments[0].ID}},
	}))

	removed, err := v.Binaries.CleanupOrphanedBinaries(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	b, err := v.Binaries.ReadBinary(ctx, hash)
	require.NoError(t, err)
	require.NotNil(t, b)
}

func TestDeleteItemSoftThenRestore(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	g, err := v.Groups.AddGroup(ctx, models.Group{Name: "home"})
	require.NoError(t, err)
	id, err := v.Items.AddItem(ctx, models.ItemDetails{Title: "wifi"}, nil, g)
	require.NoError(t, err)

	require.NoError(t, v.Items.DeleteItem(ctx, id, false))

	trashID := TrashID
	inTrash, err := v.Items.ReadItemsByGroup(ctx, &trashID)
	require.NoError(t, err)
	require.Len(t, inTrash, 1)

	// Restore by regrouping back.
	require.NoError(t, v.Groups.InsertGroupItems(ctx, []Selection{{ID: id, Type: SelectionItem}}, &g.ID))
	restored, err := v.Items.ReadItemsByGroup(ctx, &g.ID)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, id, restored[0].ID)
}

func TestDeleteItemFinalRemovesEverything(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	hash, err := v.Binaries.AddBinary(ctx, []byte("certificate"))
	require.NoError(t, err)

	id, err := v.Items.AddItem(ctx, models.ItemDetails{Title: "doomed"},
		[]models.KeyValue{{Key: "pin", Value: "1234"}}, nil)
	require.NoError(t, err)

	view, err := v.Items.ReadItem(ctx, id)
	require.NoError(t, err)
	require.NoError(t, v.Items.UpdateItem(ctx, ItemUpdate{
		Details:        view.Details,
		AttachmentsAdd: []models.ItemBinary{{BinaryHash: hash, FileName: "cert.pem"}},
	}))

	require.NoError(t, v.Items.DeleteItem(ctx, id, true))

	gone, err := v.Items.ReadItem(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	for _, table := range []string{
		v.t.ItemDetails, v.t.ItemKeyValues, v.t.GroupItems,
		v.t.ItemSnapshots, v.t.SnapshotBinaries, v.t.ItemBinaries,
	} {
		assert.Zero(t, countRows(t, v.db, table), table)
	}

	// The blob row survives until the orphan sweep runs.
	removed, err := v.Binaries.CleanupOrphanedBinaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestDeleteKeyValue(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	id, err := v.Items.AddItem(ctx, models.ItemDetails{Title: "kv"},
		[]models.KeyValue{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}, nil)
	require.NoError(t, err)

	kvs, err := v.Items.ReadKeyValues(ctx, id)
	require.NoError(t, err)
	require.Len(t, kvs, 2)

	require.NoError(t, v.Items.DeleteKeyValue(ctx, kvs[0].ID))

	kvs, err = v.Items.ReadKeyValues(ctx, id)
	require.NoError(t, err)
	assert.Len(t, kvs, 1)
}

func TestItemServiceUninitialized(t *testing.T) {
	var s *ItemService
	_, err := s.ReadItem(context.Background(), "x")
	require.ErrorIs(t, err, common.ErrNotInitialized)
}

func TestVaultListingsRefreshAfterMutation(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	l, err := v.Listings(ctx)
	require.NoError(t, err)
	assert.Empty(t, l.Groups)

	_, err = v.Groups.AddGroup(ctx, models.Group{Name: "fresh"})
	require.NoError(t, err)

	l, err = v.Listings(ctx)
	require.NoError(t, err)
	require.Len(t, l.Groups, 1)
	assert.Equal(t, "fresh", l.Groups[0].Name)
}
