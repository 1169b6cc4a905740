package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// CreateFromCart prices the cart at current catalog prices, creates the order, and for
// every line re-reads the product under a row lock, decrements its stock, snapshots the
// line and appends a sale movement. The consumed cart lines are deleted in the same
// transaction. Any failure rolls the whole unit back.
func (r *GORMOrderRepository) CreateFromCart(ctx context.Context, sessionID models.SessionID, customerEmail, currency string) (*models.Order, error) {
	var order *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := tx.Preload("Product").Where("session_id = ?", sessionID).Order("id").Find(&lines).Error; err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(lines) == 0 {
			return models.ErrEmptyCart
		}

		totals := models.CalculateTotals(lines)
		order = &models.Order{
			ID:            models.NewOrderID(),
			Number:        models.NewOrderNumber(),
			CustomerEmail: customerEmail,
			Currency:      currency,
			Total:         totals.TotalMinor,
			Status:        models.OrderStatusPending,
		}
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		lineIDs := make([]uint, 0, len(lines))
		for _, line := range lines {
			if err := reserveLine(tx, order, line); err != nil {
				return err
			}
			lineIDs = append(lineIDs, line.ID)
		}

		if err := tx.Where("id IN ?", lineIDs).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func reserveLine(tx *gorm.DB, order *models.Order, line models.CartItem) error {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", line.ProductID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		name := line.ProductID
		if line.Product != nil {
			name = line.Product.Name
		}
		return &models.InsufficientStockError{ProductName: name, Requested: line.Quantity}
	}
	if err != nil {
		return fmt.Errorf("failed to lock product %s: %w", line.ProductID, err)
	}
	if product.Stock < line.Quantity {
		return &models.InsufficientStockError{ProductName: product.Name, Requested: line.Quantity, Available: product.Stock}
	}

	// stock >= quantity in the WHERE keeps the counter from ever going negative.
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", product.ID, line.Quantity).
		Update("stock", gorm.Expr("stock - ?", line.Quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for %s: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.InsufficientStockError{ProductName: product.Name, Requested: line.Quantity, Available: product.Stock}
	}

	item := &models.OrderItem{
		OrderID:       order.ID,
		ProductID:     product.ID,
		NameSnapshot:  product.Name,
		PriceSnapshot: product.PriceMinor(),
		Quantity:      line.Quantity,
	}
	if err := tx.Create(item).Error; err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}

	movement := &models.StockMovement{
		ProductID:   product.ID,
		Type:        models.StockMovementSale,
		Quantity:    line.Quantity,
		Description: order.SaleDescription(),
	}
	if err := tx.Create(movement).Error; err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}
	return nil
}

// GetByID returns an order with its items and payments.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Payments").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByEmail(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("customer_email = ?", email).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// MarkPaid moves a pending order to paid and stamps placed_at.
func (r *GORMOrderRepository) MarkPaid(ctx context.Context, id string, placedAt time.Time) error {
	return r.transition(ctx, id, models.OrderStatusPaid, map[string]interface{}{
		"status":    models.OrderStatusPaid,
		"placed_at": placedAt,
	})
}

// MarkCancelled moves a pending order to cancelled. Stock is not restored.
func (r *GORMOrderRepository) MarkCancelled(ctx context.Context, id string) error {
	return r.transition(ctx, id, models.OrderStatusCancelled, map[string]interface{}{
		"status": models.OrderStatusCancelled,
	})
}

// transition applies updates only while the order is pending. An order already in the
// target status is left untouched and reported as success.
func (r *GORMOrderRepository) transition(ctx context.Context, id string, to models.OrderStatus, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to set order %s to %s: %w", id, to, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var current models.Order
	if err := r.db.WithContext(ctx).Select("id", "status").First(&current, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order with ID %s: %w", id, models.ErrNotFound)
		}
		return fmt.Errorf("failed to read order %s: %w", id, err)
	}
	if current.Status == to {
		return nil
	}
	return fmt.Errorf("order %s is %s, cannot become %s: %w", id, current.Status, to, models.ErrOrderFinalized)
}

func (r *GORMOrderRepository) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
