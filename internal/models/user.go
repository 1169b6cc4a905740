package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered customer or administrator.
type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username         string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email            string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password         string    `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role             string    `json:"role" gorm:"type:varchar(20);default:customer;not null"`
	StripeCustomerID string    `json:"-" gorm:"type:varchar(64)"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may reach the admin dashboard.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
