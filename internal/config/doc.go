// Package config loads runtime configuration for the haexpass CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   vault database file (SQLite DSN)
//	-e string   extension id used to build the table prefix
//	-n string   extension name used to build the table prefix
//
// # JSON schema
//
//	{
//	  "database_dsn": "vault.db",
//	  "extension_id": "kjuqpapzkcekaflkkcgbmogjqgmfmcdr",
//	  "extension_name": "haex-pass"
//	}
//
// Primary API
//
//   - type Config                     — holds DatabaseDSN and the extension identity
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
