package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/deckstats/internal/storage"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.AddCommand(newMigrateStepCommand("up", "Apply all pending migrations", (*storage.MigrationManager).Up))
	cmd.AddCommand(newMigrateStepCommand("down", "Roll back every migration", (*storage.MigrationManager).Down))
	cmd.AddCommand(newMigrateVersionCommand())
	return cmd
}

func newMigrateStepCommand(use, short string, step func(*storage.MigrationManager) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrations(func(mgr *storage.MigrationManager) error {
				if err := step(mgr); err != nil {
					return err
				}
				return printVersion(cmd, mgr)
			})
		},
	}
}

func newMigrateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrations(func(mgr *storage.MigrationManager) error {
				return printVersion(cmd, mgr)
			})
		},
	}
}

func withMigrations(fn func(*storage.MigrationManager) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mgr, err := storage.NewMigrationManager(cfg.Storage.Path)
	if err != nil {
		return err
	}
	runErr := fn(mgr)
	if closeErr := mgr.Close(); closeErr != nil && runErr == nil {
		return closeErr
	}
	return runErr
}

func printVersion(cmd *cobra.Command, mgr *storage.MigrationManager) error {
	version, dirty, err := mgr.Version()
	if err != nil {
		return err
	}
	state := ""
	if dirty {
		state = " (dirty)"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d%s\n", version, state)
	return err
}
