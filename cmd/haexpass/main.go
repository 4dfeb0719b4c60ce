package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/haexhub/haexpass/internal/cli"
	"github.com/haexhub/haexpass/internal/config"
	"github.com/haexhub/haexpass/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)
}
