package main

import (
	"fmt"

	"github.com/jappleby064/pat-database/internal/cli"
	"github.com/jappleby064/pat-database/internal/config"
	"github.com/jappleby064/pat-database/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.NewSQLiteStorage(config.DatabasePath())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Schema at version %d", storage.ExpectedSchemaVersion)))
			return nil
		},
	}

	rootCmd.AddCommand(migrateCmd)
}
