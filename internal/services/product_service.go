package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductsPerPage is the storefront catalog page size.
const ProductsPerPage = 12

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns one page of in-stock products, newest first, and the total count.
func (s *ProductService) ListProducts(ctx context.Context, page int) ([]models.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	return s.repo.ListInStock(ctx, page, ProductsPerPage)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.Price.IsNegative() {
		return models.ErrInvalidPrice
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates name, price and metadata. Stock only changes through orders and restocks.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.Price.IsNegative() {
		return models.ErrInvalidPrice
	}
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Restock adds quantity units and records a restock movement.
func (s *ProductService) Restock(ctx context.Context, id string, quantity int, description string) (*models.Product, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	if description == "" {
		description = "Manual restock"
	}
	return s.repo.Restock(ctx, id, quantity, description)
}

func (s *ProductService) ListMovements(ctx context.Context, id string) ([]models.StockMovement, error) {
	return s.repo.ListMovements(ctx, id)
}
