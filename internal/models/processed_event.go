package models

import "time"

// ProcessedEvent remembers a payment processor event that was already applied.
type ProcessedEvent struct {
	ID          string    `gorm:"primaryKey;type:varchar(255)"`
	Type        string    `gorm:"type:varchar(100);not null"`
	ProcessedAt time.Time `gorm:"not null"`
}
