// Package schema resolves the prefixed table names of a vault and provides
// the bootstrap DDL. Table names are namespaced by a caller-supplied prefix
// (extension id + extension name) so several extensions can share one
// database. Running the DDL is the host's responsibility at startup; the
// engine itself never migrates.
package schema

import (
	"context"
	"fmt"

	"github.com/haexhub/haexpass/internal/dbx"
)

// Tables holds the fully resolved table names for one vault.
type Tables struct {
	Groups           string
	ItemDetails      string
	ItemKeyValues    string
	GroupItems       string
	Binaries         string
	ItemBinaries     string
	ItemSnapshots    string
	SnapshotBinaries string
}

// Prefix builds the table-name prefix from the extension identity, matching
// the layout "<extensionID>__<extensionName>__".
func Prefix(extensionID, extensionName string) string {
	return extensionID + "__" + extensionName + "__"
}

// New resolves all table names under the given prefix. An empty prefix yields
// the bare table names.
func New(prefix string) Tables {
	return Tables{
		Groups:           prefix + "haex_passwords_groups",
		ItemDetails:      prefix + "haex_passwords_item_details",
		ItemKeyValues:    prefix + "haex_passwords_item_key_values",
		GroupItems:       prefix + "haex_passwords_group_items",
		Binaries:         prefix + "haex_passwords_binaries",
		ItemBinaries:     prefix + "haex_passwords_item_binaries",
		ItemSnapshots:    prefix + "haex_passwords_item_snapshots",
		SnapshotBinaries: prefix + "haex_passwords_snapshot_binaries",
	}
}

// CreateTables creates all vault tables if they do not exist yet. It is
// idempotent and intended for hosts and tests.
func CreateTables(ctx context.Context, db dbx.DBTX, t Tables) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
			id TEXT PRIMARY KEY,
			name TEXT,
			description TEXT,
			icon TEXT,
			color TEXT,
			"order" INTEGER,
			parent_id TEXT,
			created_at TEXT,
			updated_at TEXT
		)`, t.Groups),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
			id TEXT PRIMARY KEY,
			title TEXT,
			username TEXT,
			password TEXT,
			note TEXT,
			icon TEXT,
			tags TEXT,
			url TEXT,
			otp_secret TEXT,
			created_at TEXT,
			updated_at TEXT
		)`, t.ItemDetails),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
			id TEXT PRIMARY KEY,
			item_id TEXT,
			key TEXT,
			value TEXT,
			updated_at TEXT
		)`, t.ItemKeyValues),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
			item_id TEXT,
			group_id TEXT,
			PRIMARY KEY (item_id, group_id)
		)`, t.GroupItems),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
			hash TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			size INTEGER NOT NULL,
			created_at TEXT
		)`, t.Binaries),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL,
			binary_hash TEXT NOT NULL,
			file_name TEXT NOT NULL
		)`, t.ItemBinaries),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL,
			snapshot_data TEXT NOT NULL,
			created_at TEXT,
			modified_at TEXT
		)`, t.ItemSnapshots),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" (
			id TEXT PRIMARY KEY,
			snapshot_id TEXT NOT NULL,
			binary_hash TEXT NOT NULL,
			file_name TEXT NOT NULL
		)`, t.SnapshotBinaries),
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}
