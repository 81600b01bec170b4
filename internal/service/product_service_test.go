package service

import (
	"context"
	"errors"
	"testing"

	"shopstack/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestProductService_Update_LowStockTrigger(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name         string
		oldStock     int
		newStock     int
		expectNotify bool
	}{
		{"crossing from above fires", 15, 8, true},
		{"landing exactly on threshold fires", 12, 10, true},
		{"already below stays silent", 8, 5, false},
		{"restock above stays silent", 3, 12, false},
		{"staying above stays silent", 50, 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			productID := uuid.New()
			product := &model.Product{
				ID:            productID,
				Name:          "Widget",
				Price:         decimal.NewFromInt(100),
				StockQuantity: tt.oldStock,
				IsActive:      true,
			}

			mockProductRepo := new(MockProductRepository)
			mockNotificationRepo := new(MockNotificationRepository)
			svc := NewProductService(mockProductRepo, mockNotificationRepo, logger)

			mockProductRepo.On("GetByID", ctx, productID).Return(product, nil)
			mockProductRepo.On("Update", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

			if tt.expectNotify {
				mockNotificationRepo.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
					return n.Type == model.NotificationStock && n.Related.Kind == model.RelatedProduct && n.Related.ID == productID
				})).Return(nil)
			}

			updated, err := svc.Update(ctx, productID, &model.UpdateProductRequest{StockQuantity: intPtr(tt.newStock)})

			require.NoError(t, err)
			assert.Equal(t, tt.newStock, updated.StockQuantity)

			if tt.expectNotify {
				mockNotificationRepo.AssertExpectations(t)
			} else {
				mockNotificationRepo.AssertNotCalled(t, "Create")
			}
		})
	}
}

func TestProductService_Update_NotificationFailureDoesNotFailUpdate(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	productID := uuid.New()
	product := &model.Product{ID: productID, Name: "Widget", StockQuantity: 20, IsActive: true}

	mockProductRepo := new(MockProductRepository)
	mockNotificationRepo := new(MockNotificationRepository)
	svc := NewProductService(mockProductRepo, mockNotificationRepo, logger)

	mockProductRepo.On("GetByID", ctx, productID).Return(product, nil)
	mockProductRepo.On("Update", ctx, mock.AnythingOfType("*model.Product")).Return(nil)
	mockNotificationRepo.On("Create", ctx, mock.AnythingOfType("*model.Notification")).
		Return(errors.New("notification store down"))

	updated, err := svc.Update(ctx, productID, &model.UpdateProductRequest{StockQuantity: intPtr(5)})

	require.NoError(t, err, "a notification failure must not fail the stock update")
	assert.Equal(t, 5, updated.StockQuantity)
}

func TestProductService_Update_Validation(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	productID := uuid.New()
	product := &model.Product{ID: productID, Name: "Widget", StockQuantity: 20, IsActive: true}

	negativePrice := decimal.NewFromInt(-5)

	tests := []struct {
		name string
		req  *model.UpdateProductRequest
	}{
		{"negative price", &model.UpdateProductRequest{Price: &negativePrice}},
		{"negative stock", &model.UpdateProductRequest{StockQuantity: intPtr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProductRepo := new(MockProductRepository)
			svc := NewProductService(mockProductRepo, new(MockNotificationRepository), logger)

			mockProductRepo.On("GetByID", ctx, productID).Return(product, nil)

			_, err := svc.Update(ctx, productID, tt.req)

			require.Error(t, err)
			de, ok := model.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, model.ErrCodeValidation, de.Code)
			mockProductRepo.AssertNotCalled(t, "Update")
		})
	}
}

func TestProductService_Update_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	productID := uuid.New()

	mockProductRepo := new(MockProductRepository)
	svc := NewProductService(mockProductRepo, new(MockNotificationRepository), logger)

	mockProductRepo.On("GetByID", ctx, productID).Return(nil, nil)

	_, err := svc.Update(ctx, productID, &model.UpdateProductRequest{StockQuantity: intPtr(5)})

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeNotFound, de.Code)
}

func TestProductService_Create(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockProductRepo := new(MockProductRepository)
		svc := NewProductService(mockProductRepo, new(MockNotificationRepository), logger)

		mockProductRepo.On("Create", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

		product, err := svc.Create(ctx, &model.CreateProductRequest{
			Name:          "Widget",
			Price:         decimal.NewFromInt(100),
			Category:      "tools",
			StockQuantity: 50,
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.True(t, product.IsActive)
	})

	t.Run("missing name", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository), new(MockNotificationRepository), logger)

		_, err := svc.Create(ctx, &model.CreateProductRequest{Price: decimal.NewFromInt(100)})

		require.Error(t, err)
		de, ok := model.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, model.ErrCodeValidation, de.Code)
	})
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	productID := uuid.New()
	mockProductRepo := new(MockProductRepository)
	svc := NewProductService(mockProductRepo, new(MockNotificationRepository), logger)

	mockProductRepo.On("GetByID", ctx, productID).Return(nil, nil)

	_, err := svc.GetByID(ctx, productID)

	require.Error(t, err)
	de, ok := model.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeNotFound, de.Code)
}
