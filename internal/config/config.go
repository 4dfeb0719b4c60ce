package config

import "github.com/haexhub/haexpass/internal/vault/schema"

// Config holds runtime settings for the haexpass CLI.
//
// Fields:
//   - DatabaseDSN: path of the SQLite vault file (":memory:" for ephemeral).
//   - ExtensionID, ExtensionName: the vault identity; together they form the
//     prefix of every table the engine touches.
type Config struct {
	DatabaseDSN   string
	ExtensionID   string
	ExtensionName string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "vault.db"
	c.ExtensionID = "kjuqpapzkcekaflkkcgbmogjqgmfmcdr"
	c.ExtensionName = "haex-pass"
}

// Tables resolves the prefixed table set for the configured vault identity.
func (c *Config) Tables() schema.Tables {
	return schema.New(schema.Prefix(c.ExtensionID, c.ExtensionName))
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
