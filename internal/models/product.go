package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
type Product struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string          `json:"name" gorm:"type:text;not null" validate:"required,min=3,max=100"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock     int             `json:"stock" gorm:"not null;default:0;check:chk_products_stock,stock >= 0" validate:"gte=0"`
	Meta      ProductMeta     `json:"meta" gorm:"type:text;serializer:json"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PriceMinor returns the unit price in minor units (cents).
func (p *Product) PriceMinor() int64 {
	return ToMinorUnits(p.Price)
}

// InStock reports whether at least one unit can be sold.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
