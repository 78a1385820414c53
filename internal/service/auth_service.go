package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/apperror"
	"go-inventory-api/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.Unauthorized, "Invalid email or password")
	ErrUserNotFound       = apperror.New(apperror.NotFound, "User not found")
	ErrUserInactive       = apperror.New(apperror.Unauthorized, "User account is inactive")
	ErrWrongPassword      = apperror.New(apperror.Unauthorized, "Current password is incorrect")
	ErrEmailTaken         = apperror.New(apperror.ConstraintViolation, "Email already registered")
	ErrRoleNotAllowed     = apperror.New(apperror.Forbidden, "Admin accounts cannot be self-registered")
	ErrInvalidRole        = apperror.New(apperror.InvalidOperation, "Invalid role")
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,role"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,min=3,max=50"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, in LoginInput) (*AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) (*AuthResponse, error)
	// CreateUser provisions an account with any role. It backs the admin
	// seed and the operator CLI, never a public route.
	CreateUser(ctx context.Context, in RegisterInput) (*model.User, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log *zap.Logger) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, log: log}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	if in.Role == model.RoleAdmin {
		return nil, ErrRoleNotAllowed
	}
	user, err := s.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr(err)
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(in.Password) {
		return nil, ErrInvalidCredentials
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, userErr(err)
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) (*AuthResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	if !user.CheckPassword(in.CurrentPassword) {
		return nil, ErrWrongPassword
	}

	if err := user.SetPassword(in.NewPassword); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return nil, userErr(err)
	}

	s.log.Info("password changed", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *authService) CreateUser(ctx context.Context, in RegisterInput) (*model.User, error) {
	role := in.Role
	if role == "" {
		role = model.RoleStaff
	}
	if !model.IsValidRole(role) {
		return nil, ErrInvalidRole
	}

	user := &model.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to hash password", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, userErr(err)
	}

	s.log.Info("user created", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	return user, nil
}

func (s *authService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return userErr(err)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return apperror.Wrap(apperror.Internal, "failed to hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return userErr(err)
	}

	s.log.Info("password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) issue(user *model.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to generate token", err)
	}
	return &AuthResponse{Token: token, User: user.ToResponse()}, nil
}

func userErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	}
	return storeErr(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
