package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"genesis-api/internal/config"
	"genesis-api/internal/service"
)

// NewConfigCmd administra el documento de configuracion del proyecto.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the project configuration document",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Seed the default project configuration if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var production bool
			st, logger, err := openStore(cmd.Context(), func(cfg *config.Config) { production = cfg.IsProduction() })
			if err != nil {
				return err
			}
			defer st.Close()

			svc := service.NewProjectConfigService(logger, st.ProjectConfig, !production)
			if err := svc.EnsureDefault(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Project configuration ready")
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the project configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, logger, err := openStore(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer st.Close()

			cfg, err := service.NewProjectConfigService(logger, st.ProjectConfig, false).Get(cmd.Context())
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
}
