package handlers

import (
	"errors"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler turns the session cart into a paid order for the authenticated user.
type CheckoutHandler struct {
	checkout *services.CheckoutService
	auth     *services.AuthService
	validate *validator.Validate
}

func NewCheckoutHandler(checkout *services.CheckoutService, auth *services.AuthService) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		auth:     auth,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts checkout behind the given guards, normally middleware.AuthRequired.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	handlers := append(append([]fiber.Handler{}, guards...), middleware.CartSession())
	checkoutRoutes := router.Group("/checkout", handlers...)
	checkoutRoutes.Get("/", h.HandleSummary)
	checkoutRoutes.Post("/", h.HandleCheckout)
}

func (h *CheckoutHandler) HandleSummary(c *fiber.Ctx) error {
	view, err := h.checkout.Summary(c.UserContext(), middleware.SessionIDFrom(c))
	if err != nil {
		return respondError(c, "Could not load checkout", err)
	}
	return c.JSON(view)
}

// HandleCheckout charges the cart. A payment that needs confirmation answers 402 with the
// payment intent and client secret, and one still processing answers 202. In both cases the
// order stays pending.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	customer, err := h.auth.CurrentUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unknown user"})
		}
		return respondError(c, "Checkout failed", err)
	}

	order, err := h.checkout.Checkout(c.UserContext(), middleware.SessionIDFrom(c), customer, req)
	if err != nil {
		if order != nil {
			c.Set("X-Order-Number", order.Number)
		}
		return respondError(c, "Checkout failed", err)
	}
	if order.Status == models.OrderStatusPending {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "Payment is processing",
			"order":   order,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}
