package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"olstar_backend/internal/identity"
	"olstar_backend/internal/models"
	"olstar_backend/internal/stores"
)

type opener func(ctx context.Context) (*stores.UserStore, func(context.Context) error, error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "olstarctl",
		Short:         "Manage dispatch staff accounts",
		SilenceUsage:  true,
	}
	root.AddCommand(newSetRoleCmd(open), newCreateUserCmd(open))
	return root
}

func newSetRoleCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <uid> <role>",
		Short: "Set the role stored for a user",
		Long:  `Writes users/<uid>/role. Sessions already issued keep their old role until they expire.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			users, closeFn, err := open(ctx)
			if err != nil {
				return err
			}
			defer closeFn(ctx)

			role := strings.ToLower(strings.TrimSpace(args[1]))
			if role == "" {
				return fmt.Errorf("role must not be empty")
			}
			if err := users.SetRole(ctx, args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
			return nil
		},
	}
}

func newCreateUserCmd(open opener) *cobra.Command {
	var (
		email    string
		password string
		role     string
		verified bool
		first    string
		last     string
	)
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account for the local identity driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			users, closeFn, err := open(ctx)
			if err != nil {
				return err
			}
			defer closeFn(ctx)

			email = strings.TrimSpace(email)
			if _, _, exists, err := users.FindByEmail(ctx, email); err != nil {
				return err
			} else if exists {
				return fmt.Errorf("a user with email %s already exists", email)
			}

			hash, err := identity.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			uid := uuid.NewString()
			err = users.Put(ctx, uid, models.User{
				Email:         email,
				FirstName:     first,
				LastName:      last,
				Role:          strings.ToLower(role),
				PasswordHash:  hash,
				EmailVerified: verified,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), uid)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().StringVar(&role, "role", models.RoleAdmin, "stored role")
	cmd.Flags().BoolVar(&verified, "verified", false, "mark the email as verified")
	cmd.Flags().StringVar(&first, "first-name", "", "first name")
	cmd.Flags().StringVar(&last, "last-name", "", "last name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}
