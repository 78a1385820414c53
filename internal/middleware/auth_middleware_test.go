package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/apperror"
	"go-inventory-api/pkg/jwt"
)

func errorHandler(c *fiber.Ctx, err error) error {
	switch apperror.KindOf(err) {
	case apperror.Unauthorized:
		return c.SendStatus(fiber.StatusUnauthorized)
	case apperror.Forbidden:
		return c.SendStatus(fiber.StatusForbidden)
	}
	return c.SendStatus(fiber.StatusInternalServerError)
}

func TestRequireAuthAndRole(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepo()
	tokens := jwt.NewManager("test-secret", time.Hour)

	staff := &model.User{Name: "Staff", Email: "staff@example.com", Role: model.RoleStaff, IsActive: true}
	require.NoError(t, users.Create(ctx, staff))
	disabled := &model.User{Name: "Off", Email: "off@example.com", Role: model.RoleAdmin, IsActive: false}
	require.NoError(t, users.Create(ctx, disabled))

	staffToken, err := tokens.Generate(staff.ID, staff.Email, staff.Name, staff.Role)
	require.NoError(t, err)
	disabledToken, err := tokens.Generate(disabled.ID, disabled.Email, disabled.Name, disabled.Role)
	require.NoError(t, err)
	ghostToken, err := tokens.Generate(uuid.New(), "ghost@example.com", "Ghost", model.RoleAdmin)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	protected := app.Group("", RequireAuth(users, tokens))
	protected.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c).String() + "|" + UserName(c) + "|" + UserEmail(c) + "|" + UserRole(c))
	})
	protected.Post("/write", RequireRole(model.RoleAdmin, model.RoleStaff), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	protected.Delete("/admin", RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{name: "no header", method: "GET", path: "/me", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", method: "GET", path: "/me", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "bad token", method: "GET", path: "/me", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "unknown user", method: "GET", path: "/me", header: "Bearer " + ghostToken, want: fiber.StatusUnauthorized},
		{name: "inactive user", method: "GET", path: "/me", header: "Bearer " + disabledToken, want: fiber.StatusUnauthorized},
		{name: "ok", method: "GET", path: "/me", header: "Bearer " + staffToken, want: fiber.StatusOK},
		{name: "staff may write", method: "POST", path: "/write", header: "Bearer " + staffToken, want: fiber.StatusNoContent},
		{name: "staff may not delete", method: "DELETE", path: "/admin", header: "Bearer " + staffToken, want: fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
