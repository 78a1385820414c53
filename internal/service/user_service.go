package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/apperror"
)

var ErrSelfDemotion = apperror.New(apperror.InvalidOperation, "Admins cannot remove their own admin role or deactivate themselves")

// UserService is account administration for admins. Users are never hard
// deleted because products keep references to their creator and editor;
// deactivate them instead.
type UserService interface {
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	CreateUser(ctx context.Context, in RegisterInput, actor Actor) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput, actor Actor) (*model.UserResponse, error)
}

type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,role"`
	IsActive *bool   `json:"isActive"`
}

type userService struct {
	userRepo repository.UserRepository
	auth     AuthService
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, auth AuthService, log *zap.Logger) UserService {
	return &userService{userRepo: userRepo, auth: auth, log: log}
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, storeErr(err)
	}

	res := make([]model.UserResponse, 0, len(users))
	for i := range users {
		res = append(res, users[i].ToResponse())
	}
	return res, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}
	res := user.ToResponse()
	return &res, nil
}

func (s *userService) CreateUser(ctx context.Context, in RegisterInput, actor Actor) (*model.UserResponse, error) {
	user, err := s.auth.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info("user provisioned",
		zap.String("user_id", user.ID.String()),
		zap.String("by", actor.ID.String()),
	)
	res := user.ToResponse()
	return &res, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput, actor Actor) (*model.UserResponse, error) {
	if id == actor.ID {
		if (in.Role != nil && *in.Role != model.RoleAdmin) || (in.IsActive != nil && !*in.IsActive) {
			return nil, ErrSelfDemotion
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	if in.Role != nil {
		if !model.IsValidRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if err := user.SetPassword(*in.Password); err != nil {
			return nil, apperror.Wrap(apperror.Internal, "failed to hash password", err)
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, userErr(err)
	}

	s.log.Info("user updated",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
		zap.Bool("active", user.IsActive),
		zap.String("by", actor.ID.String()),
	)
	res := user.ToResponse()
	return &res, nil
}
