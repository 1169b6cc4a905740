package models

import "time"

type StockMovementType string

const (
	StockMovementSale    StockMovementType = "sale"
	StockMovementRestock StockMovementType = "restock"
	StockMovementManual  StockMovementType = "manual"
	StockMovementReturn  StockMovementType = "return"
)

// StockMovement is an append-only audit entry. Rows are never updated or deleted.
type StockMovement struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	ProductID   string            `json:"product_id" gorm:"type:varchar(36);index;not null"`
	Type        StockMovementType `json:"type" gorm:"type:varchar(20);not null"`
	Quantity    int               `json:"quantity" gorm:"not null"`
	Description string            `json:"description" gorm:"type:text"`
	CreatedAt   time.Time         `json:"created_at"`
}
