package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/service"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// RegisterRoutes mounts the public auth routes on router and the
// authenticated ones behind requireAuth.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Get("/me", requireAuth, h.Me)
	router.Put("/profile", requireAuth, h.UpdateProfile)
	router.Put("/change-password", requireAuth, h.ChangePassword)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := bind(c, &in); err != nil {
		return err
	}

	res, err := h.service.Register(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   res.Token,
		"data":    res.User,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in service.LoginInput
	if err := bind(c, &in); err != nil {
		return err
	}

	res, err := h.service.Login(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   res.Token,
		"data":    res.User,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user.ToResponse()})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in service.ProfileInput
	if err := bind(c, &in); err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"data":    user.ToResponse(),
	})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in service.ChangePasswordInput
	if err := bind(c, &in); err != nil {
		return err
	}

	res, err := h.service.ChangePassword(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully",
		"token":   res.Token,
	})
}
