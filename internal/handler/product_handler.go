package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/query"
	"go-inventory-api/internal/service"
)

type ProductHandler struct {
	service service.InventoryService
}

func NewProductHandler(s service.InventoryService) *ProductHandler {
	return &ProductHandler{service: s}
}

// RegisterRoutes mounts the product routes on router, which must already
// run RequireAuth. Fixed paths come before /:id.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	writers := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	router.Get("/low-stock", h.GetLowStock)
	router.Get("/category/:category", h.GetByCategory)
	router.Get("/", h.GetProducts)
	router.Post("/", writers, h.CreateProduct)
	router.Get("/:id", h.GetProduct)
	router.Put("/:id", writers, h.UpdateProduct)
	router.Delete("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteProduct)
	router.Patch("/:id/stock", writers, h.UpdateStock)
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	params := service.ListParams{
		Filters: query.Filters{
			Category: c.Query("category"),
			MinPrice: c.Query("minPrice"),
			MaxPrice: c.Query("maxPrice"),
			MinStock: c.Query("minStock"),
			MaxStock: c.Query("maxStock"),
			Search:   c.Query("search"),
		},
		Sort:  c.Query("sort"),
		Page:  c.Query("page"),
		Limit: c.Query("limit"),
	}
	// isActive is tri-state: absent means no constraint.
	if c.Context().QueryArgs().Has("isActive") {
		v := c.Query("isActive")
		params.Filters.IsActive = &v
	}

	list, err := h.service.ListProducts(c.UserContext(), params)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   list.Count,
		"stats":   list.Stats,
		"data":    model.ToResponses(list.Items),
	})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": product.ToResponse()})
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var in service.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), in, actorFrom(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product created successfully",
		"data":    product.ToResponse(),
	})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	var in service.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, in, actorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product updated successfully",
		"data":    product.ToResponse(),
	})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.UserContext(), id, actorFrom(c)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product deleted successfully",
		"data":    fiber.Map{},
	})
}

func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return err
	}

	var adj service.StockAdjustment
	if err := bind(c, &adj); err != nil {
		return err
	}

	product, err := h.service.AdjustStock(c.UserContext(), id, adj, actorFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Stock updated successfully",
		"data":    product.ToResponse(),
	})
}

func (h *ProductHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.ListLowStock(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(products),
		"data":    model.ToResponses(products),
	})
}

func (h *ProductHandler) GetByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	if decoded, err := url.PathUnescape(category); err == nil {
		category = decoded
	}

	products, err := h.service.ListByCategory(c.UserContext(), category)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(products),
		"data":    model.ToResponses(products),
	})
}
