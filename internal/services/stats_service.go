package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers      int64                        `json:"total_users"`
	AdminUsers      int64                        `json:"admin_users"`
	TotalProducts   int64                        `json:"total_products"`
	InStockProducts int64                        `json:"in_stock_products"`
	OrdersByStatus  map[models.OrderStatus]int64 `json:"orders_by_status"`
}

type StatsService struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
	orders   repositories.OrderRepository
}

func NewStatsService(users repositories.UserRepository, products repositories.ProductRepository, orders repositories.OrderRepository) *StatsService {
	return &StatsService{users: users, products: products, orders: orders}
}

func (s *StatsService) Collect(ctx context.Context) (*Stats, error) {
	var st Stats
	var err error
	if st.TotalUsers, st.AdminUsers, err = s.users.CountByRole(ctx); err != nil {
		return nil, err
	}
	if st.TotalProducts, st.InStockProducts, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if st.OrdersByStatus, err = s.orders.CountByStatus(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}
