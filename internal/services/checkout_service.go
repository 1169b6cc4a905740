package services

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"github.com/rs/zerolog/log"
)

// CheckoutRequest is what the customer submits to pay for the current cart.
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	SaveCard      bool   `json:"save_card"`
}

// CheckoutService runs the cart → order → charge → paid flow.
type CheckoutService struct {
	carts    *CartService
	orders   *OrderService
	payments *PaymentService
}

func NewCheckoutService(carts *CartService, orders *OrderService, payments *PaymentService) *CheckoutService {
	return &CheckoutService{carts: carts, orders: orders, payments: payments}
}

// Summary returns what the customer is about to pay for.
func (s *CheckoutService) Summary(ctx context.Context, sessionID models.SessionID) (*CartView, error) {
	return s.carts.View(ctx, sessionID)
}

// Checkout creates an order from the session cart and charges its total. When the charge
// fails the pending order is returned alongside the error and left for reconciliation. A
// charge the processor is still processing also leaves the order pending.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID models.SessionID, customer *models.User, req CheckoutRequest) (*models.Order, error) {
	order, err := s.orders.CreateOrderFromCart(ctx, sessionID, customer.Email)
	if err != nil {
		return nil, err
	}

	payment, err := s.payments.Charge(ctx, customer, order.Total, req.PaymentMethod, order)
	if err != nil {
		log.Warn().Err(err).Str("order_id", order.ID).Msg("checkout charge did not complete")
		return order, err
	}

	if req.SaveCard {
		s.payments.SavePaymentMethodAsDefault(ctx, customer, req.PaymentMethod)
	}

	if payment.Status != models.PaymentStatusCaptured {
		log.Info().Str("order_id", order.ID).Str("payment_status", string(payment.Status)).Msg("payment processing, order stays pending")
		return s.orders.GetOrder(ctx, order.ID)
	}

	if err := s.orders.MarkOrderPaid(ctx, order.ID); err != nil {
		return order, fmt.Errorf("failed to mark order %s paid: %w", order.Number, err)
	}
	return s.orders.GetOrder(ctx, order.ID)
}
