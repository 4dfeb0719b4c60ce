package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haexhub/haexpass/internal/logging"
	"github.com/haexhub/haexpass/internal/vault/cache"
	"github.com/haexhub/haexpass/internal/vault/schema"

	_ "modernc.org/sqlite"
)

func setupVault(t *testing.T) *Vault {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tables := schema.New("test__pass__")
	require.NoError(t, schema.CreateTables(context.Background(), db, tables))
	return New(db, tables, logging.Nop(), cache.New())
}

func strPtr(s string) *string { return &s }

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "`+table+`"`).Scan(&n))
	return n
}
