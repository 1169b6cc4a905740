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

// EventRepository remembers which payment processor events were already applied.
type EventRepository interface {
	Seen(ctx context.Context, id string) (bool, error)
	Record(ctx context.Context, id, eventType string) error
}

type GORMEventRepository struct {
	db *gorm.DB
}

func NewGORMEventRepository(db *gorm.DB) *GORMEventRepository {
	return &GORMEventRepository{db: db}
}

func (r *GORMEventRepository) Seen(ctx context.Context, id string) (bool, error) {
	var event models.ProcessedEvent
	err := r.db.WithContext(ctx).Select("id").First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up event %s: %w", id, err)
	}
	return true, nil
}

// Record stores the event id. Recording the same id twice is not an error.
func (r *GORMEventRepository) Record(ctx context.Context, id, eventType string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessedEvent{ID: id, Type: eventType, ProcessedAt: time.Now().UTC()}).Error
	if err != nil {
		return fmt.Errorf("failed to record event %s: %w", id, err)
	}
	return nil
}
