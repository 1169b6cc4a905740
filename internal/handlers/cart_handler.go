package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler exposes the anonymous session cart. Routes expect middleware.CartSession.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart", middleware.CartSession())
	cartRoutes.Get("/", h.HandleView)
	cartRoutes.Delete("/", h.HandleClear)
	cartRoutes.Get("/count", h.HandleCount)
	cartRoutes.Post("/items", h.HandleAdd)
	cartRoutes.Patch("/items/:id", h.HandleUpdate)
	cartRoutes.Delete("/items/:id", h.HandleRemove)
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func (h *CartHandler) HandleView(c *fiber.Ctx) error {
	view, err := h.service.View(c.UserContext(), middleware.SessionIDFrom(c))
	if err != nil {
		return respondError(c, "Could not load cart", err)
	}
	return c.JSON(view)
}

func (h *CartHandler) HandleCount(c *fiber.Ctx) error {
	count, err := h.service.Count(c.UserContext(), middleware.SessionIDFrom(c))
	if err != nil {
		return respondError(c, "Could not count cart", err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	item, err := h.service.AddItem(c.UserContext(), middleware.SessionIDFrom(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, "Could not add to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid cart item id"})
	}
	var req UpdateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	item, err := h.service.UpdateItem(c.UserContext(), middleware.SessionIDFrom(c), uint(id), req.Quantity)
	if err != nil {
		return respondError(c, "Could not update cart", err)
	}
	return c.JSON(item)
}

func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid cart item id"})
	}
	if err := h.service.RemoveItem(c.UserContext(), middleware.SessionIDFrom(c), uint(id)); err != nil {
		return respondError(c, "Could not remove from cart", err)
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart"})
}

func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(c.UserContext(), middleware.SessionIDFrom(c)); err != nil {
		return respondError(c, "Could not clear cart", err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}
