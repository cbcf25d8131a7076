package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/flowcoach-api/internal/repository"
	"github.com/noah-isme/flowcoach-api/internal/service"
)

var setRoleCmd = &cobra.Command{
	Use:   "set-role <email> <user|admin>",
	Short: "Change the role of an existing account",
	Long:  "Roles cannot be changed through the API. Use this command to grant or revoke admin access for an account that has signed in at least once.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := boot()
		if err != nil {
			return err
		}

		users := service.NewUserService(repository.NewUserRepository(rt.db), rt.validate, rt.logger)
		profile, err := users.SetRole(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("set role for %s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", profile.Email, profile.Role)
		return nil
	},
}
