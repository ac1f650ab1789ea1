package main

import (
	"github.com/spf13/cobra"

	"genesis-api/internal/service"
)

// NewRevokeCmd marca como revocado el token vigente de un usuario.
func NewRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <email>",
		Short: "Revoke the current access token of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, logger, err := openStore(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer st.Close()

			auth := service.NewAuthService(logger, st.Users, nil, nil, false)
			user, err := auth.RevokeByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("Access token of %s revoked\n", user.Email)
			return nil
		},
	}
}
