package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	ListInStock(ctx context.Context, page, pageSize int) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	Restock(ctx context.Context, id string, quantity int, description string) (*models.Product, error)
	ListMovements(ctx context.Context, productID string) ([]models.StockMovement, error)
	Count(ctx context.Context) (total int64, inStock int64, err error)
}
