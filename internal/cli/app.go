package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/haexhub/haexpass/internal/config"
	"github.com/haexhub/haexpass/internal/logging"
	"github.com/haexhub/haexpass/internal/vault/cache"
	"github.com/haexhub/haexpass/internal/vault/schema"
	"github.com/haexhub/haexpass/internal/vault/services"

	_ "modernc.org/sqlite"
)

// App owns the database handle and the vault services for one CLI session.
type App struct {
	config *config.Config
	db     *sql.DB
	vault  *services.Vault
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the vault database, makes sure the prefixed tables exist and
// wires the services.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := sql.Open("sqlite", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	tables := cfg.Tables()
	if err := schema.CreateTables(ctx, db, tables); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config: cfg,
		db:     db,
		vault:  services.New(db, tables, log, cache.New()),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) status() string {
	return fmt.Sprintf("(%s)", a.config.DatabaseDSN)
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
