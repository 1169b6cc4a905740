package handlers

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// respondError maps domain errors onto status codes and the {"message","error"} body.
func respondError(c *fiber.Ctx, message string, err error) error {
	var (
		stockErr      *models.InsufficientStockError
		incompleteErr *models.IncompletePaymentError
	)
	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &incompleteErr):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"message":        "Additional payment confirmation required",
			"error":          err.Error(),
			"payment_intent": incompleteErr.PaymentIntentID,
			"client_secret":  incompleteErr.ClientSecret,
		})
	case errors.As(err, &stockErr):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidPrice):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrOrderFinalized):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, models.ErrPaymentFailed):
		status = fiber.StatusBadGateway
	}

	evt := log.Warn()
	if status >= fiber.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).Str("path", c.Path()).Int("status", status).Msg(message)

	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// validationFailed renders validator errors per field, the same way for every handler.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return badRequest(c, err)
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
