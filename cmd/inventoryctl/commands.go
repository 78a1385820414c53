package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"go-inventory-api/internal/bootstrap"
	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/service"
	"go-inventory-api/pkg/jwt"
	"go-inventory-api/pkg/logger"
	"go-inventory-api/pkg/validator"
)

// authOpener connects to the configured store and returns the account
// service plus a func that releases it.
type authOpener func(ctx context.Context) (service.AuthService, func() error, error)

func openAuth(ctx context.Context) (service.AuthService, func() error, error) {
	_ = config.ApplyEnvFile(config.EnvPath())
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.StoreDriver == config.StoreMemory {
		return nil, nil, fmt.Errorf("%s=%s keeps no data between runs", config.StoreDriverEnv, cfg.StoreDriver)
	}

	log, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		return nil, nil, err
	}
	stores, err := bootstrap.OpenStores(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	auth := service.NewAuthService(stores.Users, jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL), log)
	return auth, func() error {
		_ = log.Sync()
		return stores.Close()
	}, nil
}

func newRootCmd(open authOpener) *cobra.Command {
	root := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Operator commands for the inventory API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCreateUserCmd(open), newResetPasswordCmd(open))
	return root
}

func newCreateUserCmd(open authOpener) *cobra.Command {
	var in service.RegisterInput

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account with any role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := validator.ValidateStruct(in); len(errs) > 0 {
				return fmt.Errorf("invalid %s: %s", errs[0].FailedField, errs[0].Tag)
			}
			auth, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := auth.CreateUser(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.Role, "role", model.RoleStaff, "admin, staff or viewer")
	for _, f := range []string{"name", "email", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newResetPasswordCmd(open authOpener) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			auth, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := auth.ResetPassword(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("reset password for %s: %w", email, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password for %s has been reset\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
