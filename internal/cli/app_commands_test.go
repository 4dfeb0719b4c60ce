package cli

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haexhub/haexpass/internal/config"
	"github.com/haexhub/haexpass/internal/logging"
	"github.com/haexhub/haexpass/internal/vault/cache"
	"github.com/haexhub/haexpass/internal/vault/models"
	"github.com/haexhub/haexpass/internal/vault/schema"
	"github.com/haexhub/haexpass/internal/vault/services"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{DatabaseDSN: ":memory:", ExtensionID: "test", ExtensionName: "pass"}
	tables := cfg.Tables()
	require.NoError(t, schema.CreateTables(context.Background(), db, tables))

	var out bytes.Buffer
	return &App{
		config: cfg,
		db:     db,
		vault:  services.New(db, tables, logging.Nop(), cache.New()),
		reader: bufio.NewReader(strings.NewReader("")),
		out:    &out,
	}, &out
}

// stubInputs replaces the interactive seams with canned answers, consumed in
// order.
func stubInputs(t *testing.T, answers []string, password string) {
	t.Helper()
	origST, origGP, origML, origKV := getSimpleText, getPassword, getMultiline, getKeyValues
	t.Cleanup(func() {
		getSimpleText, getPassword, getMultiline, getKeyValues = origST, origGP, origML, origKV
	})

	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", nil
		}
		a := answers[i]
		i++
		return a, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return "", nil }
	getKeyValues = func(_ *bufio.Reader, _ io.Writer) ([]models.KeyValue, error) { return nil, nil }
}

func TestAddGroupAndListGroups(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	stubInputs(t, []string{"Email", ""}, "")
	require.NoError(t, app.AddGroup(ctx))
	assert.Contains(t, out.String(), "Created group")

	out.Reset()
	require.NoError(t, app.Groups(ctx))
	assert.Contains(t, out.String(), "Email")
}

func TestAddItemAndShow(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	stubInputs(t, []string{"example.com", "alice", "https://example.com", ""}, "s3cret")
	require.NoError(t, app.AddItem(ctx))
	assert.Contains(t, out.String(), "Created item")

	id, err := app.vault.Items.ReadItemsByGroup(ctx, nil)
	require.NoError(t, err)
	require.Len(t, id, 1)

	out.Reset()
	stubInputs(t, []string{id[0].ID}, "")
	require.NoError(t, app.Show(ctx))
	assert.Contains(t, out.String(), "example.com")
	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), "1 snapshot(s)")
}

func TestShowMissingItem(t *testing.T) {
	app, out := newTestApp(t)

	stubInputs(t, []string{"missing"}, "")
	require.NoError(t, app.Show(context.Background()))
	assert.Contains(t, out.String(), "Item not found.")
}

func TestDeleteItemSoftFromCLI(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	itemID, err := app.vault.Items.AddItem(ctx, models.ItemDetails{Title: "junk"}, nil, nil)
	require.NoError(t, err)

	stubInputs(t, []string{itemID, "n"}, "")
	require.NoError(t, app.DeleteItem(ctx))
	assert.Contains(t, out.String(), "Moved to trash.")

	trash := services.TrashID
	inTrash, err := app.vault.Items.ReadItemsByGroup(ctx, &trash)
	require.NoError(t, err)
	assert.Len(t, inTrash, 1)
}

func TestCleanupReportsCount(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	_, err := app.vault.Binaries.AddBinary(ctx, []byte("orphan"))
	require.NoError(t, err)

	require.NoError(t, app.Cleanup(ctx))
	assert.Contains(t, out.String(), "Removed 1")
}
