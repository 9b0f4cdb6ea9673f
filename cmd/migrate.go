package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookwise/calsync/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateDatabase(); err != nil {
				return err
			}

			st, err := store.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
			if err != nil {
				return err
			}

			if err := st.AutoMigrate(context.Background()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			logger.Info("schema migrated", "driver", cfg.DatabaseDriver)
			return nil
		},
	}
}
