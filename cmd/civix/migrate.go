package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations to the indicator store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer store.Close()

		applied, err := store.ApplyMigrations(cmd.Context())
		if err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("Migrations complete",
			zap.String("driver", cfg.Database.Driver),
			zap.Strings("applied", applied),
		)
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		}
		for _, v := range applied {
			fmt.Fprintln(cmd.OutOrStdout(), "applied", v)
		}
		return nil
	},
}
