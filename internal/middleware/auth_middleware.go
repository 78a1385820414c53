package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/apperror"
	"go-inventory-api/pkg/jwt"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID    = "user_id"
	LocalUserName  = "user_name"
	LocalUserEmail = "user_email"
	LocalUserRole  = "user_role"
)

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository, tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.New(apperror.Unauthorized, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return apperror.New(apperror.Unauthorized, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			return apperror.New(apperror.Unauthorized, "Invalid or expired token")
		}

		// The account may have been disabled or its role changed since the
		// token was issued.
		user, err := userRepo.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			return apperror.New(apperror.Unauthorized, "User not found")
		}
		if !user.IsActive {
			return apperror.New(apperror.Unauthorized, "User account is inactive")
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserName, user.Name)
		c.Locals(LocalUserEmail, user.Email)
		c.Locals(LocalUserRole, user.Role)

		return c.Next()
	}
}

// RequireRole lets the request through only when the authenticated user
// holds one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalUserRole).(string)
		if !ok {
			return apperror.New(apperror.Forbidden, "No role found")
		}

		u := model.User{Role: role}
		if u.HasRole(roles...) {
			return c.Next()
		}

		return apperror.New(apperror.Forbidden, "Forbidden: requires one of "+strings.Join(roles, ", ")+" roles")
	}
}

// UserID returns the authenticated user's id, or uuid.Nil outside RequireAuth.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalUserID).(uuid.UUID)
	return id
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

func UserName(c *fiber.Ctx) string  { return localString(c, LocalUserName) }
func UserEmail(c *fiber.Ctx) string { return localString(c, LocalUserEmail) }
func UserRole(c *fiber.Ctx) string  { return localString(c, LocalUserRole) }
