package models

import "time"

const ProviderStripe = "stripe"

// PaymentStatus follows authorized -> captured | failed, and captured -> refunded.
type PaymentStatus string

const (
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusCaptured: {PaymentStatusAuthorized},
	PaymentStatusFailed:   {PaymentStatusAuthorized},
	PaymentStatusRefunded: {PaymentStatusCaptured},
}

// AllowedSources lists the statuses a payment may be in to move to s. Staying in s is
// always allowed.
func (s PaymentStatus) AllowedSources() []PaymentStatus {
	return append([]PaymentStatus{s}, paymentTransitions[s]...)
}

// Payment records one attempt to collect money for an order.
type Payment struct {
	ID         string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string        `json:"order_id" gorm:"type:varchar(36);index;not null"`
	Provider   string        `json:"provider" gorm:"type:varchar(20);not null;index:idx_payments_provider_ref,priority:1"`
	ProviderID *string       `json:"provider_id" gorm:"type:varchar(80);index:idx_payments_provider_ref,priority:2"`
	Amount     int64         `json:"amount" gorm:"not null"` // minor units
	Currency   string        `json:"currency" gorm:"type:varchar(3);not null;default:USD"`
	Status     PaymentStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
