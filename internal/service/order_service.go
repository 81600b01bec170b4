package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"shopstack/internal/mailer"
	"shopstack/internal/model"
	"shopstack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// emailTimeout bounds the background confirmation email send.
const emailTimeout = 15 * time.Second

// orderService implements OrderService.
type orderService struct {
	orderRepo        repository.OrderRepository
	customerRepo     repository.CustomerRepository
	productRepo      repository.ProductRepository
	notificationRepo repository.NotificationRepository
	identity         IdentityService
	mailer           mailer.Mailer
	logger           zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	notificationRepo repository.NotificationRepository,
	identity IdentityService,
	m mailer.Mailer,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:        orderRepo,
		customerRepo:     customerRepo,
		productRepo:      productRepo,
		notificationRepo: notificationRepo,
		identity:         identity,
		mailer:           m,
		logger:           logger.With().Str("service", "order").Logger(),
	}
}

// Create creates a new order from checkout or admin entry. The order write
// is the primary transaction; the order notification and confirmation email
// are best-effort side effects that never fail the response.
func (s *orderService) Create(ctx context.Context, req *model.CreateOrderRequest) (*model.OrderResponse, error) {
	if err := validateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	customerID, err := s.identity.ResolveCustomer(ctx, &req.Customer)
	if err != nil {
		return nil, err
	}

	paymentStatus := model.PaymentStatusPending
	if req.PaymentStatus != nil {
		if !req.PaymentStatus.Valid() {
			return nil, model.NewValidationError(fmt.Sprintf("invalid payment status: %s", *req.PaymentStatus))
		}
		paymentStatus = *req.PaymentStatus
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		OrderNumber:     newOrderNumber(now),
		CustomerID:      customerID,
		Status:          model.OrderStatusPending,
		PaymentStatus:   paymentStatus,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.Items = buildOrderItems(order.ID, req.Items)
	// The total trusts the client-submitted unit prices; there is no
	// authoritative price re-lookup at order time.
	order.TotalAmount = model.ComputeTotal(order.Items)

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The order is durable from here on; side effects must not undo it.
	s.notifyOrderCreated(ctx, order)

	customer, lookupErr := s.customerRepo.GetByID(ctx, customerID)
	if lookupErr != nil {
		s.logger.Warn().Err(lookupErr).Msg("failed to load customer for order response")
	}
	if customer != nil {
		s.sendConfirmationEmail(customer, order)
	}

	response, err := s.buildResponse(ctx, order, customer)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("total", order.TotalAmount.String()).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return response, nil
}

// Update applies partial fields to an order. The total is recomputed
// server-side whenever items change, and a payment notification is emitted
// exactly once per genuine transition into paid.
func (s *orderService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrderRequest) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if order == nil {
		return nil, model.NewNotFoundError("order not found")
	}

	priorPaymentStatus := order.PaymentStatus

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, model.NewValidationError(fmt.Sprintf("invalid order status: %s", *req.Status))
		}
		order.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		if !req.PaymentStatus.Valid() {
			return nil, model.NewValidationError(fmt.Sprintf("invalid payment status: %s", *req.PaymentStatus))
		}
		order.PaymentStatus = *req.PaymentStatus
	}
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}
	if req.ShippingAddress != nil {
		order.ShippingAddress = *req.ShippingAddress
	}

	replaceItems := false
	if req.Items != nil {
		if len(*req.Items) == 0 {
			return nil, model.NewValidationError("order must contain at least one item")
		}
		if err := validateOrderItems(*req.Items); err != nil {
			return nil, err
		}
		order.Items = buildOrderItems(order.ID, *req.Items)
		order.TotalAmount = model.ComputeTotal(order.Items)
		replaceItems = true
	}

	order.UpdatedAt = time.Now()

	if err := s.orderRepo.Update(ctx, order, replaceItems); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	// Compare prior against new state: a paid->paid re-set must not
	// re-notify.
	if priorPaymentStatus != model.PaymentStatusPaid && order.PaymentStatus == model.PaymentStatusPaid {
		s.notifyPaymentConfirmed(ctx, order)
	}

	customer, lookupErr := s.customerRepo.GetByID(ctx, order.CustomerID)
	if lookupErr != nil {
		s.logger.Warn().Err(lookupErr).Msg("failed to load customer for order response")
	}

	return s.buildResponse(ctx, order, customer)
}

// GetByID retrieves an order. Customers can only see their own orders; a
// foreign order is reported as not found rather than forbidden.
func (s *orderService) GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.NewNotFoundError("order not found")
	}

	if actor.Role == model.RoleCustomer && order.CustomerID != actor.ID {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("actor_id", actor.ID.String()).
			Msg("customer requested foreign order")
		return nil, model.NewNotFoundError("order not found")
	}

	customer, lookupErr := s.customerRepo.GetByID(ctx, order.CustomerID)
	if lookupErr != nil {
		s.logger.Warn().Err(lookupErr).Msg("failed to load customer for order response")
	}

	return s.buildResponse(ctx, order, customer)
}

// List retrieves orders. A customer actor's filter is forced to their own
// customer id regardless of the requested filter.
func (s *orderService) List(ctx context.Context, actor model.Actor, filter model.OrderFilter) ([]model.Order, error) {
	if actor.Role == model.RoleCustomer {
		own := actor.ID
		filter.CustomerID = &own
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// Delete hard-deletes an order. There is no soft-delete or audit trail.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError("order not found")
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")

	return nil
}

// notifyOrderCreated appends an order notification. Failures are logged and
// swallowed: the order itself is already durable.
func (s *orderService) notifyOrderCreated(ctx context.Context, order *model.Order) {
	now := time.Now()
	n := &model.Notification{
		ID:        uuid.New(),
		Title:     "New order received",
		Message:   fmt.Sprintf("Order %s placed for %s", order.OrderNumber, order.TotalAmount.StringFixed(2)),
		Type:      model.NotificationOrder,
		Related:   model.OrderRef(order.ID),
		CreatedAt: now,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to write order notification")
	}
}

// notifyPaymentConfirmed appends a payment notification. Failures are logged
// and swallowed.
func (s *orderService) notifyPaymentConfirmed(ctx context.Context, order *model.Order) {
	now := time.Now()
	n := &model.Notification{
		ID:        uuid.New(),
		Title:     "Payment received",
		Message:   fmt.Sprintf("Payment confirmed for order %s", order.OrderNumber),
		Type:      model.NotificationPayment,
		Related:   model.OrderRef(order.ID),
		CreatedAt: now,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to write payment notification")
	}
}

// sendConfirmationEmail dispatches the confirmation email in the background
// with its own deadline, detached from the request context.
func (s *orderService) sendConfirmationEmail(customer *model.User, order *model.Order) {
	logger := s.logger.With().Str("order_id", order.ID.String()).Logger()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emailTimeout)
		defer cancel()

		if err := s.mailer.SendOrderConfirmation(ctx, customer.Email, customer.Name, order); err != nil {
			logger.Warn().Err(err).Msg("failed to send order confirmation email")
		}
	}()
}

// buildResponse expands the order's customer and product references.
func (s *orderService) buildResponse(ctx context.Context, order *model.Order, customer *model.User) (*model.OrderResponse, error) {
	productIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	return &model.OrderResponse{
		Order:        *order,
		CustomerInfo: customer,
		Products:     products,
	}, nil
}

// validateCreateOrderRequest checks presence of customer info, items and the
// shipping address.
func validateCreateOrderRequest(req *model.CreateOrderRequest) error {
	if req == nil {
		return model.NewValidationError("order request is required")
	}
	if req.Customer.Empty() {
		return model.NewValidationError("customer information is required")
	}
	if len(req.Items) == 0 {
		return model.NewValidationError("order must contain at least one item")
	}
	if err := validateOrderItems(req.Items); err != nil {
		return err
	}

	addr := req.ShippingAddress
	if addr.Street == "" || addr.City == "" || addr.ZipCode == "" || addr.Country == "" {
		return model.NewValidationError("shipping address is required")
	}

	return nil
}

func validateOrderItems(items []model.OrderItemRequest) error {
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return model.NewValidationError(fmt.Sprintf("item %d: product is required", i))
		}
		if item.Quantity <= 0 {
			return model.NewValidationError(fmt.Sprintf("item %d: quantity must be greater than zero", i))
		}
		if item.Price.IsNegative() {
			return model.NewValidationError(fmt.Sprintf("item %d: price cannot be negative", i))
		}
	}
	return nil
}

func buildOrderItems(orderID uuid.UUID, items []model.OrderItemRequest) []model.OrderItem {
	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return orderItems
}

// newOrderNumber generates a globally unique order number from the creation
// timestamp and a random suffix. Collision probability is treated as
// negligible; there is no retry-on-duplicate logic.
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%04d", now.UnixMilli(), rand.IntN(10000))
}
