package main

import (
	"fmt"

	"github.com/spf13/cobra"

	taskmigrations "github.com/mindflow/backend/migrations/task"
	"github.com/mindflow/backend/pkg/config"
	"github.com/mindflow/backend/pkg/migrator"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the task schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := migrator.RunMigrations(cfg.DatabaseURL, taskmigrations.FS); err != nil {
				return err
			}
			return printVersion(cmd, cfg.DatabaseURL)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := migrator.Rollback(cfg.DatabaseURL, taskmigrations.FS); err != nil {
				return err
			}
			return printVersion(cmd, cfg.DatabaseURL)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return printVersion(cmd, cfg.DatabaseURL)
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, dsn string) error {
	v, err := migrator.Version(dsn, taskmigrations.FS)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
	return nil
}
