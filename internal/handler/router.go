package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/model"
)

// Routes groups the handlers mounted under /api.
type Routes struct {
	Auth        *AuthHandler
	Products    *ProductHandler
	Dashboard   *DashboardHandler
	Users       *UserHandler
	RequireAuth fiber.Handler
}

// Mount registers the health checks and the /api tree on app. Extra
// handlers in apiMiddleware run before every /api route.
func Mount(app *fiber.App, r Routes, apiMiddleware ...fiber.Handler) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Inventory Management API is running",
			"version": "1.0.0",
		})
	})

	api := app.Group("/api", apiMiddleware...)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "API is healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Auth.RegisterRoutes(api.Group("/auth"), r.RequireAuth)

	products := api.Group("/products", r.RequireAuth)
	r.Dashboard.RegisterRoutes(products)
	r.Products.RegisterRoutes(products)

	if r.Users != nil {
		r.Users.RegisterRoutes(api.Group("/users", r.RequireAuth, middleware.RequireRole(model.RoleAdmin)))
	}
}

// NotFound answers any request no route matched. Register it last.
func NotFound(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotFound, "Not Found - "+c.OriginalURL())
}
