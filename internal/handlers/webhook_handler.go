package handlers

import (
	"errors"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// WebhookHandler receives payment processor notifications. Responses are plain text since
// the processor only looks at the status code.
type WebhookHandler struct {
	service *services.ReconciliationService
}

func NewWebhookHandler(service *services.ReconciliationService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhooks/stripe", h.HandleStripe)
}

func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	// Body() is only valid for the lifetime of the handler.
	payload := append([]byte(nil), c.Body()...)

	err := h.service.Handle(c.UserContext(), payload, c.Get("Stripe-Signature"))
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).SendString("OK")
	case errors.Is(err, models.ErrInvalidPayload):
		log.Warn().Err(err).Msg("rejected webhook payload")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	default:
		log.Error().Err(err).Bytes("payload", payload).Msg("webhook processing failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Webhook error")
	}
}
