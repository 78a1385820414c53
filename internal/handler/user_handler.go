package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-inventory-api/internal/service"
	"go-inventory-api/pkg/apperror"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes mounts account administration on router. Callers guard
// router with RequireAuth and RequireRole(admin).
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.GetUsers)
	router.Post("/", h.CreateUser)
	router.Get("/:id", h.GetUser)
	router.Put("/:id", h.UpdateUser)
}

// GetUsers returns all users
// GET /api/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "count": len(users), "data": users})
}

// GetUser returns one user
// GET /api/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

// CreateUser provisions an account with any role
// POST /api/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := bind(c, &in); err != nil {
		return err
	}

	user, err := h.userService.CreateUser(c.UserContext(), in, actorFrom(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"data":    user,
	})
}

// UpdateUser changes profile, role, password or active flag
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	var in service.UpdateUserInput
	if err := bind(c, &in); err != nil {
		return err
	}

	user, err := h.userService.UpdateUser(c.UserContext(), id, in, actorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"data":    user,
	})
}

func parseUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.InvalidOperation, "Invalid user ID")
	}
	return id, nil
}
