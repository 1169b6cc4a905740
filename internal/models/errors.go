package models

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is returned when an order is requested for a session without cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrOrderFinalized is returned when a paid or cancelled order is asked to change state.
	ErrOrderFinalized = errors.New("order is already finalized")
	// ErrInvalidStatusTransition is returned when a payment cannot move to the requested status.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrInvalidPayload marks a webhook body that is not a JSON object carrying a type.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrPaymentFailed wraps every provider failure that is not an incomplete payment.
	ErrPaymentFailed = errors.New("payment failed")
	// ErrForbidden is returned when a session touches a cart line it does not own.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidQuantity is returned for zero or negative quantities.
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidPrice       = errors.New("price must not be negative")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InsufficientStockError aborts an order when a product cannot cover the requested quantity.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = "a product"
	}
	return fmt.Sprintf("insufficient stock for %s (requested: %d, available: %d)", name, e.Requested, e.Available)
}

// IncompletePaymentError signals that the customer must finish the payment on the provider's side.
type IncompletePaymentError struct {
	PaymentIntentID string
	ClientSecret    string
	Status          string
}

func (e *IncompletePaymentError) Error() string {
	return fmt.Sprintf("payment %s requires additional customer action (%s)", e.PaymentIntentID, e.Status)
}
