package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathanpasca/manov-sub001/internal/platform/migration"
)

func newMigrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireDatabase(); err != nil {
				return err
			}
			return migration.RunUp(a.databaseURL, a.migrationPath, a.logger)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireDatabase(); err != nil {
				return err
			}
			return migration.RunDown(a.databaseURL, a.migrationPath, steps, a.logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireDatabase(); err != nil {
				return err
			}
			current, dirty, err := migration.Version(a.databaseURL, a.migrationPath, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", current, dirty)
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}
