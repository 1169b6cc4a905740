package handlers

import (
	"fmt"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	auth    *services.AuthService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, auth *services.AuthService) *OrderHandler {
	return &OrderHandler{
		service: service,
		auth:    auth,
	}
}

// RegisterRoutes registers the order routes behind guards, normally middleware.AuthRequired.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	orderRoutes := router.Group("/orders", guards...)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleGetOrders lists the authenticated customer's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	user, err := h.auth.CurrentUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	orders, err := h.service.ListOrders(c.UserContext(), user.Email)
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns an order with lines and payments. Customers only see their own.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrder(c.UserContext(), orderID)
	if err != nil {
		return respondError(c, "Could not retrieve order", err)
	}

	if middleware.Role(c) != models.RoleAdmin {
		user, err := h.auth.CurrentUser(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, "Could not retrieve order", err)
		}
		if user.Email != order.CustomerEmail {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
	}
	return c.JSON(order)
}
