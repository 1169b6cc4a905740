package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order: pending, then paid or cancelled.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// OrderItem is an immutable snapshot of a product line at order time.
type OrderItem struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OrderID       string    `json:"order_id" gorm:"type:varchar(36);index:idx_orderitems_order;not null"`
	ProductID     string    `json:"product_id" gorm:"type:varchar(36);not null"`
	NameSnapshot  string    `json:"name" gorm:"type:text;not null"`
	PriceSnapshot int64     `json:"price" gorm:"not null"` // minor units at the time of order
	Quantity      int       `json:"quantity" gorm:"not null;check:chk_order_items_quantity,quantity > 0"`
	CreatedAt     time.Time `json:"created_at"`
}

// LineTotal returns the line amount in minor units.
func (i OrderItem) LineTotal() int64 {
	return i.PriceSnapshot * int64(i.Quantity)
}

// Order represents a committed, priced purchase.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Number        string      `json:"number" gorm:"type:varchar(12);uniqueIndex;not null"`
	CustomerEmail string      `json:"customer_email" gorm:"type:text;index;not null"`
	Currency      string      `json:"currency" gorm:"type:varchar(3);not null;default:USD"`
	Total         int64       `json:"total" gorm:"not null"` // minor units
	Status        OrderStatus `json:"status" gorm:"type:varchar(30);index;not null"`
	PlacedAt      *time.Time  `json:"placed_at"`
	Items         []OrderItem `json:"items,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Payments      []Payment   `json:"payments,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewOrderID returns a time-ordered, non-sequential identifier.
func NewOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// NewOrderNumber returns a random 12 character upper-case code shown to customers.
func NewOrderNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:12])
}

// SaleDescription is the stock movement text written for each order line.
func (o *Order) SaleDescription() string {
	return fmt.Sprintf("Order %s", o.Number)
}
