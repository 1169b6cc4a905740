package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartView is the priced content of a session cart.
type CartView struct {
	Items  []models.CartItem `json:"items"`
	Totals models.Totals     `json:"totals"`
	Count  int64             `json:"count"`
}

// CartService manages the anonymous per-session cart.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem puts quantity units of a product into the cart, merging with an existing line.
// The merged quantity must not exceed current stock.
func (s *CartService) AddItem(ctx context.Context, sessionID models.SessionID, productID string, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	line, err := s.carts.FindLine(ctx, sessionID, productID)
	if err != nil {
		return nil, err
	}

	wanted := quantity
	if line != nil {
		wanted += line.Quantity
	}
	if wanted > product.Stock {
		return nil, &models.InsufficientStockError{ProductName: product.Name, Requested: wanted, Available: product.Stock}
	}

	if line != nil {
		if err := s.carts.UpdateQuantity(ctx, line.ID, wanted); err != nil {
			return nil, err
		}
		line.Quantity = wanted
		line.Product = product
		return line, nil
	}

	line = &models.CartItem{SessionID: sessionID, ProductID: productID, Quantity: quantity}
	if err := s.carts.Create(ctx, line); err != nil {
		return nil, err
	}
	line.Product = product
	return line, nil
}

// UpdateItem sets the quantity of a line owned by the session.
func (s *CartService) UpdateItem(ctx context.Context, sessionID models.SessionID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	item, err := s.owned(ctx, sessionID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Product == nil {
		return nil, fmt.Errorf("product %s: %w", item.ProductID, models.ErrNotFound)
	}
	if quantity > item.Product.Stock {
		return nil, &models.InsufficientStockError{ProductName: item.Product.Name, Requested: quantity, Available: item.Product.Stock}
	}
	if err := s.carts.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID models.SessionID, itemID uint) error {
	item, err := s.owned(ctx, sessionID, itemID)
	if err != nil {
		return err
	}
	return s.carts.Delete(ctx, item.ID)
}

func (s *CartService) owned(ctx context.Context, sessionID models.SessionID, itemID uint) (*models.CartItem, error) {
	item, err := s.carts.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.SessionID != sessionID {
		return nil, models.ErrForbidden
	}
	return item, nil
}

// Count returns the number of units in the cart.
func (s *CartService) Count(ctx context.Context, sessionID models.SessionID) (int64, error) {
	return s.carts.CountQuantity(ctx, sessionID)
}

// View returns the cart lines priced at current catalog prices.
func (s *CartService) View(ctx context.Context, sessionID models.SessionID) (*CartView, error) {
	items, err := s.carts.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var count int64
	for _, item := range items {
		count += int64(item.Quantity)
	}
	return &CartView{Items: items, Totals: models.CalculateTotals(items), Count: count}, nil
}

func (s *CartService) Clear(ctx context.Context, sessionID models.SessionID) error {
	return s.carts.Clear(ctx, sessionID)
}
