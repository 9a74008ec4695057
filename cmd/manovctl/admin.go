package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	pgstore "github.com/nathanpasca/manov-sub001/internal/platform/postgres"
	"github.com/nathanpasca/manov-sub001/internal/users/auth"
)

func newCreateAdminCommand(a *app) *cobra.Command {
	var input auth.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, or promote the account owning --email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireDatabase(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			pool, err := pgstore.NewPool(ctx, a.databaseURL, a.logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			// EnsureAdmin only touches the user store.
			service := auth.NewService(auth.NewUserRepository(pool), nil, nil, a.logger)

			user, created, err := service.EnsureAdmin(ctx, input)
			if err != nil {
				return err
			}

			verb := "promoted"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s: %s (%s)\n", verb, user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "admin username")
	cmd.Flags().StringVar(&input.Email, "email", "", "admin email; an existing account with this email is promoted")
	cmd.Flags().StringVar(&input.Password, "password", "", "admin password (8-100 chars, upper, lower and digit)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
