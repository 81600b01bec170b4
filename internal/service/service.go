package service

import (
	"context"

	"shopstack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IdentityService resolves checkout customer input to a persisted customer.
type IdentityService interface {
	// ResolveCustomer returns the customer id for the given input, creating
	// a customer record from guest info when none exists for the email.
	ResolveCustomer(ctx context.Context, input *model.CustomerInput) (uuid.UUID, error)
}

// CouponService validates coupon codes against cart amounts. Validation is
// pure: it never increments a coupon's usage counter.
type CouponService interface {
	Validate(ctx context.Context, code string, cartAmount decimal.Decimal) (*model.CouponDiscount, error)
}

// OrderService defines operations for the order lifecycle.
type OrderService interface {
	// Create creates a new order from checkout or admin entry.
	Create(ctx context.Context, req *model.CreateOrderRequest) (*model.OrderResponse, error)

	// Update applies partial fields to an order, recomputing the total when
	// items change and emitting a payment notification on a genuine
	// transition to paid.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order, scoped to the actor's role.
	GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.OrderResponse, error)

	// List retrieves orders, scoped to the actor's role.
	List(ctx context.Context, actor model.Actor, filter model.OrderFilter) ([]model.Order, error)

	// Delete hard-deletes an order.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductService defines operations for product management. Updates fire the
// low-stock notification trigger.
type ProductService interface {
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error)
}

// NotificationService exposes the dashboard notification feed.
type NotificationService interface {
	List(ctx context.Context, unreadOnly bool, limit, offset int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)

	// Create is the admin-facing side door; primary-flow notifications are
	// emitted by internal triggers.
	Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error)
}

// AuthService handles signup, login and the password reset flow.
type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// RequestPasswordReset emails a reset link best-effort. It succeeds even
	// for unknown emails to avoid account enumeration.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword verifies a reset token and sets the new password.
	ResetPassword(ctx context.Context, token, newPassword string) error
}
