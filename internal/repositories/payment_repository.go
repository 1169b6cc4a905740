package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByProviderID(ctx context.Context, provider, providerID string) (*models.Payment, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error)
	// UpdateStatusByProviderID moves every payment with the provider reference to status and
	// returns how many rows changed. Payments that cannot legally reach status yield
	// ErrInvalidStatusTransition.
	UpdateStatusByProviderID(ctx context.Context, provider, providerID string, status models.PaymentStatus) (int64, error)
}

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

func (r *GORMPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = models.NewOrderID()
	}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *GORMPaymentRepository) GetByProviderID(ctx context.Context, provider, providerID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %s/%s: %w", provider, providerID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment %s/%s: %w", provider, providerID, err)
	}
	return &payment, nil
}

func (r *GORMPaymentRepository) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *GORMPaymentRepository) UpdateStatusByProviderID(ctx context.Context, provider, providerID string, status models.PaymentStatus) (int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("provider = ? AND provider_id = ?", provider, providerID).
		Session(&gorm.Session{})

	res := base.
		Where("status IN ?", status.AllowedSources()).
		Update("status", status)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to set payment %s to %s: %w", providerID, status, res.Error)
	}

	var blocked int64
	if err := base.Where("status NOT IN ?", status.AllowedSources()).Count(&blocked).Error; err != nil {
		return res.RowsAffected, fmt.Errorf("failed to check payment %s: %w", providerID, err)
	}
	if blocked > 0 {
		return res.RowsAffected, fmt.Errorf("payment %s cannot become %s: %w", providerID, status, models.ErrInvalidStatusTransition)
	}
	return res.RowsAffected, nil
}
