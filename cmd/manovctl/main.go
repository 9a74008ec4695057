// Command manovctl is the operator CLI for Manov.
//
// It shares the API's migration runner and account service:
//
//	manovctl migrate up
//	manovctl migrate down --steps 1
//	manovctl migrate version
//	manovctl create-admin --username root --email root@example.com --password '...'
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/nathanpasca/manov-sub001/internal/platform/constants"
	"github.com/nathanpasca/manov-sub001/internal/platform/logging"
)

// settings is the slice of the API configuration the CLI needs.
type settings struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	Debug         bool   `env:"DEBUG"          envDefault:"false"`
}

func loadSettings() (*settings, error) {
	cfg := &settings{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("manovctl: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// app carries the state shared by every subcommand.
type app struct {
	databaseURL   string
	migrationPath string
	logger        *slog.Logger
}

func (a *app) requireDatabase() error {
	if a.databaseURL == "" {
		return fmt.Errorf("manovctl: DATABASE_URL or --database-url is required")
	}
	return nil
}

func newRootCommand(cfg *settings, logger *slog.Logger) *cobra.Command {
	a := &app{
		databaseURL:   cfg.DatabaseURL,
		migrationPath: cfg.MigrationPath,
		logger:        logger,
	}

	root := &cobra.Command{
		Use:           "manovctl",
		Short:         "Manov operator tooling",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.databaseURL, "database-url", a.databaseURL, "PostgreSQL URL (defaults to $DATABASE_URL)")
	root.PersistentFlags().StringVar(&a.migrationPath, "migrations", a.migrationPath, "path to the SQL migrations directory")

	root.AddCommand(newMigrateCommand(a), newCreateAdminCommand(a))
	return root
}

func main() {
	cfg, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, closeLog := logging.New(logging.Options{App: "manovctl", Debug: cfg.Debug})
	defer func() { _ = closeLog() }()

	if err := newRootCommand(cfg, logger).Execute(); err != nil {
		logger.Error("command_failed", slog.Any("error", err))
		os.Exit(1)
	}
}
