package bootstrap

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"go-inventory-api/internal/config"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"
)

// SeedAdmin creates the configured admin account when it does not exist
// yet. It is a no-op without ADMIN_EMAIL and ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context, admin config.Admin, users repository.UserRepository, auth service.AuthService, log *zap.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}

	_, err := users.FindByEmail(ctx, admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	user, err := auth.CreateUser(ctx, service.RegisterInput{
		Name:     "Administrator",
		Email:    admin.Email,
		Password: admin.Password,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	log.Info("Admin user created", zap.String("email", user.Email))
	return nil
}
