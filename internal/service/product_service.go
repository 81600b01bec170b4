package service

import (
	"context"
	"fmt"
	"time"

	"shopstack/internal/model"
	"shopstack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo      repository.ProductRepository
	notificationRepo repository.NotificationRepository
	logger           zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	notificationRepo repository.NotificationRepository,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:      productRepo,
		notificationRepo: notificationRepo,
		logger:           logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFoundError("product not found")
	}

	return product, nil
}

// Create inserts a new product.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req.Name == "" {
		return nil, model.NewValidationError("product name is required")
	}
	if req.Price.IsNegative() {
		return nil, model.NewValidationError("product price cannot be negative")
	}
	if req.StockQuantity < 0 {
		return nil, model.NewValidationError("stock quantity cannot be negative")
	}

	now := time.Now()
	product := &model.Product{
		ID:            uuid.New(),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewConflictError("product already exists")
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID.String()).Msg("product created")

	return product, nil
}

// Update applies partial fields to a product and fires the low-stock
// trigger when the update crosses the threshold from above.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFoundError("product not found")
	}

	oldStock := product.StockQuantity

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, model.NewValidationError("product price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, model.NewValidationError("stock quantity cannot be negative")
		}
		product.StockQuantity = *req.StockQuantity
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// Edge-triggered: only a crossing from above the threshold notifies.
	// Updates that keep the stock at or below it stay silent until the
	// stock rises above the threshold again.
	if product.StockQuantity <= model.LowStockThreshold && oldStock > model.LowStockThreshold {
		s.notifyLowStock(ctx, product)
	}

	return product, nil
}

// notifyLowStock appends a stock notification. Failures are logged and
// swallowed; the product update has already been persisted.
func (s *productService) notifyLowStock(ctx context.Context, product *model.Product) {
	n := &model.Notification{
		ID:        uuid.New(),
		Title:     "Low stock alert",
		Message:   fmt.Sprintf("%s is down to %d units", product.Name, product.StockQuantity),
		Type:      model.NotificationStock,
		Related:   model.ProductRef(product.ID),
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Warn().Err(err).Str("product_id", product.ID.String()).Msg("failed to write stock notification")
	} else {
		s.logger.Info().
			Str("product_id", product.ID.String()).
			Int("stock_quantity", product.StockQuantity).
			Msg("low stock notification fired")
	}
}
