package main

import (
	"fmt"

	"wallet-ledger/pkg/postgres"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := postgres.MigrateUp(&cfg.Database, appLogger); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			if err := postgres.MigrateDown(&cfg.Database, steps, appLogger); err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			return nil
		},
	}
	down.Flags().Int("steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}
