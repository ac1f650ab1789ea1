package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"genesis-api/internal/config"
	"genesis-api/internal/store"
)

var envFile string

// NewRootCmd crea el comando raiz de genesisctl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "genesisctl",
		Short:        "Administrative tasks for Genesis API",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewRoleCmd())
	cmd.AddCommand(NewRevokeCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// openStore carga la configuracion y conecta al backend configurado.
func openStore(ctx context.Context, mutate func(*config.Config)) (*store.Store, *zap.Logger, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if mutate != nil {
		mutate(cfg)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, oops.Code("DB_CONNECT_FAILED").With("driver", cfg.StoreDriver).Wrap(err)
	}
	return st, logger, nil
}
