package services_test

import (
	"context"
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	expectedProducts := []models.Product{
		{ID: "1", Name: "Product A", Price: decimal.NewFromInt(10), Stock: 100},
		{ID: "2", Name: "Product B", Price: decimal.NewFromInt(20), Stock: 50},
	}

	// Page numbers below one fall back to the first page.
	mockRepo.On("ListInStock", ctx, 1, services.ProductsPerPage).Return(expectedProducts, int64(2), nil).Once()

	products, total, err := service.ListProducts(ctx, 0)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Price: decimal.NewFromInt(10), Stock: 100}

	// Test successful retrieval
	mockRepo.On("GetByID", ctx, "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	// Test product not found
	mockRepo.On("GetByID", ctx, "99").Return(nil, fmt.Errorf("product with ID 99: %w", models.ErrNotFound)).Once()
	product, err = service.GetProductByID(ctx, "99")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	newProduct := &models.Product{Name: "New Product", Price: decimal.NewFromInt(50), Stock: 20}

	// Test successful creation
	mockRepo.On("Create", ctx, newProduct).Return(nil).Once()
	err := service.CreateProduct(ctx, newProduct)
	assert.NoError(t, err)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", ctx, newProduct).Return(fmt.Errorf("database error")).Once()
	err = service.CreateProduct(ctx, newProduct)
	assert.ErrorContains(t, err, "database error")
	mockRepo.AssertExpectations(t)

	// Negative prices never reach the repository.
	err = service.CreateProduct(ctx, &models.Product{Name: "Broken", Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)
	mockRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	updatedProduct := &models.Product{ID: "1", Name: "Product A Updated", Price: decimal.NewFromInt(12)}

	mockRepo.On("Update", ctx, updatedProduct).Return(nil).Once()
	assert.NoError(t, service.UpdateProduct(ctx, updatedProduct))

	mockRepo.On("Delete", ctx, "1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, "1"))

	mockRepo.On("Delete", ctx, "99").Return(models.ErrNotFound).Once()
	assert.ErrorIs(t, service.DeleteProduct(ctx, "99"), models.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Restock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	ctx := context.Background()

	_, err := service.Restock(ctx, "1", 0, "")
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	restocked := &models.Product{ID: "1", Name: "Product A", Stock: 15}
	mockRepo.On("Restock", ctx, "1", 5, "Manual restock").Return(restocked, nil).Once()
	product, err := service.Restock(ctx, "1", 5, "")
	assert.NoError(t, err)
	assert.Equal(t, 15, product.Stock)

	mockRepo.On("ListMovements", ctx, "1").Return([]models.StockMovement{{ProductID: "1", Type: models.StockMovementRestock, Quantity: 5}}, nil).Once()
	movements, err := service.ListMovements(ctx, "1")
	assert.NoError(t, err)
	assert.Len(t, movements, 1)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Restock", mock.Anything, "1", 0, mock.Anything)
}
