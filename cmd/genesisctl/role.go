package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"genesis-api/internal/domain"
	"genesis-api/internal/service"
)

// NewRoleCmd agrupa la gestion de roles. El registro solo crea usuarios con rol user.
func NewRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage user roles",
	}
	cmd.AddCommand(
		newSetRoleCmd("set <email> <role>", "Set the role of a user", cobra.ExactArgs(2), func(args []string) (string, string) { return args[0], args[1] }),
		newSetRoleCmd("promote <email>", "Grant the admin role", cobra.ExactArgs(1), func(args []string) (string, string) { return args[0], string(domain.RoleAdmin) }),
		newSetRoleCmd("demote <email>", "Revert a user to the user role", cobra.ExactArgs(1), func(args []string) (string, string) { return args[0], string(domain.RoleUser) }),
	)
	return cmd
}

func newSetRoleCmd(use, short string, args cobra.PositionalArgs, pick func([]string) (string, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, rawRole := pick(args)
			role, err := parseRole(rawRole)
			if err != nil {
				return err
			}

			st, logger, err := openStore(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer st.Close()

			auth := service.NewAuthService(logger, st.Users, nil, nil, false)
			user, err := auth.SetRole(cmd.Context(), email, role)
			if err != nil {
				return err
			}
			cmd.Printf("%s is now %s\n", user.Email, user.Role)
			return nil
		},
	}
}

func parseRole(raw string) (domain.Role, error) {
	role := domain.Role(raw)
	if !role.Valid() {
		return "", oops.Code("INVALID_ROLE").Errorf("unknown role %q, expected %s or %s", raw, domain.RoleUser, domain.RoleAdmin)
	}
	return role, nil
}
