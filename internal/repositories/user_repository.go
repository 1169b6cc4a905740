package repositories

import (
	"context"

	"storefront/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetStripeCustomerID(ctx context.Context, id, customerID string) error
	SetRole(ctx context.Context, id, role string) error
	CountByRole(ctx context.Context) (total int64, admins int64, err error)
}
