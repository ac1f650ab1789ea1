package main

import (
	"github.com/spf13/cobra"

	"genesis-api/internal/config"
)

// NewMigrateCmd aplica migraciones (Postgres) o crea indices (Mongo).
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations or indexes for the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println("Connecting to store...")
			st, _, err := openStore(cmd.Context(), func(cfg *config.Config) { cfg.AutoMigrate = true })
			if err != nil {
				return err
			}
			defer st.Close()

			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}
