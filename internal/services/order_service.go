package services

import (
	"context"
	"errors"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/rs/zerolog/log"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	currency  string
	events    EventPublisher
	now       func() time.Time
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, currency string, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		currency:  currency,
		events:    events,
		now:       time.Now,
	}
}

// CreateOrderFromCart converts the session cart into a pending order. Stock is reserved and
// the cart emptied in the same transaction; the returned order carries no lines.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, sessionID models.SessionID, customerEmail string) (*models.Order, error) {
	if !sessionID.Valid() {
		return nil, models.ErrEmptyCart
	}
	order, err := s.orderRepo.CreateFromCart(ctx, sessionID, customerEmail, s.currency)
	if err != nil {
		var stockErr *models.InsufficientStockError
		if errors.As(err, &stockErr) {
			log.Info().Str("product", stockErr.ProductName).Int("requested", stockErr.Requested).Msg("order rejected: insufficient stock")
		}
		return nil, err
	}

	log.Info().Str("order_id", order.ID).Str("number", order.Number).Int64("total", order.Total).Msg("order created")
	publishOrderEvent(s.events, RoutingOrderCreated, OrderEvent{
		OrderID:       order.ID,
		Number:        order.Number,
		Status:        order.Status,
		CustomerEmail: order.CustomerEmail,
		Total:         order.Total,
		Currency:      order.Currency,
		OccurredAt:    s.now().UTC(),
	})
	return order, nil
}

// MarkOrderPaid moves a pending order to paid. Calling it again on a paid order is a no-op;
// a cancelled order yields ErrOrderFinalized.
func (s *OrderService) MarkOrderPaid(ctx context.Context, id string) error {
	now := s.now().UTC()
	if err := s.orderRepo.MarkPaid(ctx, id, now); err != nil {
		return err
	}
	publishOrderEvent(s.events, RoutingOrderPaid, OrderEvent{OrderID: id, Status: models.OrderStatusPaid, OccurredAt: now})
	return nil
}

// MarkOrderCancelled moves a pending order to cancelled. Reserved stock is kept.
func (s *OrderService) MarkOrderCancelled(ctx context.Context, id string) error {
	if err := s.orderRepo.MarkCancelled(ctx, id); err != nil {
		return err
	}
	publishOrderEvent(s.events, RoutingOrderCancelled, OrderEvent{OrderID: id, Status: models.OrderStatusCancelled, OccurredAt: s.now().UTC()})
	return nil
}

// GetOrder returns an order with its lines and payments.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// ListOrders returns a customer's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, customerEmail string) ([]models.Order, error) {
	return s.orderRepo.ListByEmail(ctx, customerEmail)
}

func (s *OrderService) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	return s.orderRepo.CountByStatus(ctx)
}
