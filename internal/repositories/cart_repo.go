package repositories

import (
	"context"

	"storefront/internal/models"
)

// CartRepository defines the interface for session cart data access.
type CartRepository interface {
	ListBySession(ctx context.Context, sessionID models.SessionID) ([]models.CartItem, error)
	GetByID(ctx context.Context, id uint) (*models.CartItem, error)
	FindLine(ctx context.Context, sessionID models.SessionID, productID string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	Delete(ctx context.Context, id uint) error
	Clear(ctx context.Context, sessionID models.SessionID) error
	CountQuantity(ctx context.Context, sessionID models.SessionID) (int64, error)
}
