package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reelstack/moviecatalog/internal/logging"
)

var (
	databaseURL   string
	migrationsDir string
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Operational tooling for the movie catalog database",
	Long: `catalogctl manages the movie catalog's PostgreSQL schema and
development data.

Subcommands:
  migrate up      - Apply pending schema migrations
  migrate status  - Show applied and pending migrations
  seed            - Insert the development fixture (idempotent)`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("CATALOG_DATABASE__URL"), "PostgreSQL connection URL")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations-dir", "db/migrations", "Directory holding *_*.up.sql migration files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func newLogger() zerolog.Logger {
	return logging.New(logging.Config{Level: logLevel, Format: "console"})
}
