package models

import "time"

// CartItem is a session-scoped working-set entry. It stops being authoritative once an
// order has been created from it.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID SessionID `json:"session_id" gorm:"type:varchar(64);index:idx_cart_session;not null"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null"`
	Quantity  int       `json:"quantity" gorm:"not null;check:chk_cart_items_quantity,quantity > 0"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
