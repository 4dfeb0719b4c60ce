package services

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haexhub/haexpass/internal/common"
	"github.com/haexhub/haexpass/internal/vault/models"
)

func TestHashIsDeterministic(t *testing.T) {
	a := Hash([]byte("payload"))
	b := Hash([]byte("payload"))
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, Hash([]byte("other")))
}

func TestHashBase64MatchesRawHash(t *testing.T) {
	raw := []byte("payload")
	encoded := base64.StdEncoding.EncodeToString(raw)

	h, err := HashBase64(encoded)
	require.NoError(t, err)
	assert.Equal(t, Hash(raw), h)

	_, err = HashBase64("not base64!!!")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestAddBinaryDeduplicates(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	first, err := v.Binaries.AddBinary(ctx, []byte("same bytes"))
	require.NoError(t, err)

	b, err := v.Binaries.ReadBinary(ctx, first)
	require.NoError(t, err)
	require.NotNil(t, b)
	createdAt := b.CreatedAt

	second, err := v.Binaries.AddBinary(ctx, []byte("same bytes"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, countRows(t, v.db, v.t.Binaries))

	b, err = v.Binaries.ReadBinary(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, createdAt, b.CreatedAt)
}

func TestAddBinaryStoresBase64AndSize(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	raw := []byte{0x00, 0x01, 0xff}
	hash, err := v.Binaries.AddBinary(ctx, raw)
	require.NoError(t, err)

	b, err := v.Binaries.ReadBinary(ctx, hash)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), b.Data)
	assert.Equal(t, int64(len(raw)), b.Size)

	decoded, err := base64.StdEncoding.DecodeString(b.Data)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestCleanupRemovesOnlyUnreferenced(t *testing.T) {
	v := setupVault(t)
	ctx := context.Background()

	orphan, err := v.Binaries.AddBinary(ctx, []byte("orphan"))
	require.NoError(t, err)
	kept, err := v.Binaries.AddBinary(ctx, []byte("kept"))
	require.NoError(t, err)

	id, err := v.Items.AddItem(ctx, models.ItemDetails{Title: "holder"}, nil, nil)
	require.NoError(t, err)
	view, err := v.Items.ReadItem(ctx, id)
	require.NoError(t, err)
	require.NoError(t, v.Items.UpdateItem(ctx, ItemUpdate{
		Details:        view.Details,
		AttachmentsAdd: []models.ItemBinary{{BinaryHash: kept, FileName: "keep.txt"}},
	}))

	removed, err := v.Binaries.CleanupOrphanedBinaries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	gone, err := v.Binaries.ReadBinary(ctx, orphan)
	require.NoError(t, err)
	assert.Nil(t, gone)

	still, err := v.Binaries.ReadBinary(ctx, kept)
	require.NoError(t, err)
	require.NotNil(t, still)
}

func TestBinaryServiceUninitialized(t *testing.T) {
	var s *BinaryService
	_, err := s.AddBinary(context.Background(), []byte("x"))
	require.ErrorIs(t, err, common.ErrNotInitialized)
}
