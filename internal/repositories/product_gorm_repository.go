package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// ListInStock returns one page of products that can still be bought, newest first,
// together with the total number of such products.
func (r *GORMProductRepository) ListInStock(ctx context.Context, page, pageSize int) ([]models.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("stock > ?", 0).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	if err := q.Order("created_at DESC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update changes the catalog fields of a product. Stock is only changed through Restock
// and order creation so that every change has a movement row.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{ID: product.ID}).
		Select("name", "price", "meta").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", product.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID together with the cart lines that still reference it.
// Order lines keep their snapshots.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to remove product %s from carts: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
		}
		return nil
	})
}

// Restock adds quantity units to a product and records a restock movement.
func (r *GORMProductRepository) Restock(ctx context.Context, id string, quantity int, description string) (*models.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("restock quantity must be positive, got %d", quantity)
	}

	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
			}
			return err
		}
		if err := tx.Model(&product).Update("stock", gorm.Expr("stock + ?", quantity)).Error; err != nil {
			return fmt.Errorf("failed to increment stock: %w", err)
		}
		product.Stock += quantity

		return tx.Create(&models.StockMovement{
			ProductID:   product.ID,
			Type:        models.StockMovementRestock,
			Quantity:    quantity,
			Description: description,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restock product %s: %w", id, err)
	}
	return &product, nil
}

// ListMovements returns the stock ledger of one product, newest first.
func (r *GORMProductRepository) ListMovements(ctx context.Context, productID string) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id DESC").Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}

func (r *GORMProductRepository) Count(ctx context.Context) (int64, int64, error) {
	var total, inStock int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("stock > ?", 0).Count(&inStock).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count products in stock: %w", err)
	}
	return total, inStock, nil
}
