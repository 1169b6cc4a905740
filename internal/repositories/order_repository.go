package repositories

import (
	"context"
	"time"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// CreateFromCart turns the session's cart into a pending order in one transaction.
	CreateFromCart(ctx context.Context, sessionID models.SessionID, customerEmail, currency string) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByEmail(ctx context.Context, email string) ([]models.Order, error)
	MarkPaid(ctx context.Context, id string, placedAt time.Time) error
	MarkCancelled(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
}
