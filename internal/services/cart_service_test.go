package services_test

import (
	"context"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartService() (*services.CartService, *MockCartRepository, *MockProductRepository) {
	carts := new(MockCartRepository)
	products := new(MockProductRepository)
	return services.NewCartService(carts, products), carts, products
}

func TestCartService_AddItem_New(t *testing.T) {
	service, carts, products := newCartService()
	ctx := context.Background()
	sid := models.SessionID("s1")
	product := &models.Product{ID: "p1", Name: "Mug", Price: decimal.NewFromInt(8), Stock: 5}

	products.On("GetByID", ctx, "p1").Return(product, nil).Once()
	carts.On("FindLine", ctx, sid, "p1").Return(nil, nil).Once()
	carts.On("Create", ctx, mock.MatchedBy(func(item *models.CartItem) bool {
		return item.SessionID == sid && item.ProductID == "p1" && item.Quantity == 2
	})).Return(nil).Once()

	line, err := service.AddItem(ctx, sid, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, product, line.Product)
	carts.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestCartService_AddItem_MergesExistingLine(t *testing.T) {
	service, carts, products := newCartService()
	ctx := context.Background()
	sid := models.SessionID("s1")

	products.On("GetByID", ctx, "p1").Return(&models.Product{ID: "p1", Name: "Mug", Stock: 5}, nil)
	carts.On("FindLine", ctx, sid, "p1").Return(&models.CartItem{ID: 7, SessionID: sid, ProductID: "p1", Quantity: 3}, nil).Once()
	carts.On("FindLine", ctx, sid, "p1").Return(&models.CartItem{ID: 7, SessionID: sid, ProductID: "p1", Quantity: 3}, nil).Once()
	carts.On("UpdateQuantity", ctx, uint(7), 5).Return(nil).Once()

	line, err := service.AddItem(ctx, sid, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	// 3 in the cart + 3 more exceeds the 5 in stock.
	_, err = service.AddItem(ctx, sid, "p1", 3)
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Mug", stockErr.ProductName)
	assert.Equal(t, 6, stockErr.Requested)
	carts.AssertNumberOfCalls(t, "UpdateQuantity", 1)
	carts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_Rejects(t *testing.T) {
	service, _, products := newCartService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "s1", "p1", 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	products.On("GetByID", ctx, "missing").Return(nil, models.ErrNotFound).Once()
	_, err = service.AddItem(ctx, "s1", "missing", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCartService_UpdateItem(t *testing.T) {
	service, carts, _ := newCartService()
	ctx := context.Background()
	item := &models.CartItem{ID: 3, SessionID: "owner", ProductID: "p1", Quantity: 1, Product: &models.Product{ID: "p1", Name: "Mug", Stock: 4}}

	carts.On("GetByID", ctx, uint(3)).Return(item, nil)
	carts.On("UpdateQuantity", ctx, uint(3), 4).Return(nil).Once()

	// Another session may not touch the line.
	_, err := service.UpdateItem(ctx, "intruder", 3, 2)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = service.UpdateItem(ctx, "owner", 3, 5)
	var stockErr *models.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)

	updated, err := service.UpdateItem(ctx, "owner", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	carts.AssertNumberOfCalls(t, "UpdateQuantity", 1)
}

func TestCartService_RemoveItem(t *testing.T) {
	service, carts, _ := newCartService()
	ctx := context.Background()

	carts.On("GetByID", ctx, uint(9)).Return(&models.CartItem{ID: 9, SessionID: "owner"}, nil)
	carts.On("Delete", ctx, uint(9)).Return(nil).Once()

	assert.ErrorIs(t, service.RemoveItem(ctx, "intruder", 9), models.ErrForbidden)
	assert.NoError(t, service.RemoveItem(ctx, "owner", 9))
	carts.AssertNumberOfCalls(t, "Delete", 1)
}

func TestCartService_View(t *testing.T) {
	service, carts, _ := newCartService()
	ctx := context.Background()
	items := []models.CartItem{
		{ID: 1, Quantity: 2, Product: &models.Product{Price: decimal.NewFromInt(20)}},
		{ID: 2, Quantity: 1, Product: &models.Product{Price: decimal.NewFromInt(10)}},
	}
	carts.On("ListBySession", ctx, models.SessionID("s1")).Return(items, nil).Once()

	view, err := service.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), view.Count)
	assert.True(t, view.Totals.Subtotal.Equal(decimal.NewFromInt(50)))
	// 50 + 5 tax + 10 shipping
	assert.Equal(t, int64(6500), view.Totals.TotalMinor)
}
