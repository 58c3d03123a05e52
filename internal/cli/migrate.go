package cli

import (
	"fmt"

	"resumeforge/internal/errors"
	"resumeforge/internal/storage"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := getConfigFromContext(ctx)
		logger := getLoggerFromContext(ctx)

		store, err := storage.Open(ctx, storage.Options{
			Driver:   cfg.Database.Driver,
			DSN:      cfg.Database.DSN,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return errors.NewStorageError(errors.ErrCodeStorageFailed, "Failed to open database", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close database", "error", err.Error())
			}
		}()

		if err := store.Migrate(ctx); err != nil {
			return errors.NewStorageError(errors.ErrCodeStorageFailed, "Failed to migrate database", err)
		}
		logger.Info("Database schema is up to date", "driver", cfg.Database.Driver)
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", cfg.Database.Driver)
		return nil
	},
}
