package config

import (
	"flag"
	"os"

	"github.com/haexhub/haexpass/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   vault database file (default from Config)
//	-e string   extension id (default from Config)
//	-n string   extension name (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-e", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "vault database file")
	fs.StringVar(&cfg.ExtensionID, "e", cfg.ExtensionID, "extension id")
	fs.StringVar(&cfg.ExtensionName, "n", cfg.ExtensionName, "extension name")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
