package repository

import (
	"context"
	"errors"

	"shopstack/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CustomerRepository defines data access for user accounts.
type CustomerRepository interface {
	// GetByID retrieves a user by id. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by normalized email. Returns (nil, nil)
	// when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Create inserts a new user. The unique index on email is the
	// correctness backstop for concurrent find-or-create.
	Create(ctx context.Context, user *model.User) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// OrderRepository defines data access for orders and their line items.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order line items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List retrieves orders matching the filter, newest first, items included.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// Update persists the order's mutable fields. When replaceItems is true
	// the order's line items are replaced wholesale with order.Items.
	Update(ctx context.Context, order *model.Order, replaceItems bool) error

	// Delete hard-deletes an order and its items. Returns (false, nil) when
	// the order did not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CouponRepository defines data access for coupons.
type CouponRepository interface {
	// GetActiveByCode retrieves an active coupon by normalized code.
	// Returns (nil, nil) when absent.
	GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error)

	// Create inserts a new coupon.
	Create(ctx context.Context, coupon *model.Coupon) error
}

// NotificationRepository defines data access for the append-only
// notification log.
type NotificationRepository interface {
	// Create appends a notification.
	Create(ctx context.Context, n *model.Notification) error

	// List retrieves notifications, newest first.
	List(ctx context.Context, unreadOnly bool, limit, offset int) ([]model.Notification, error)

	// MarkRead marks one notification read and stamps readAt. Returns
	// (nil, nil) when absent.
	MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error)

	// MarkAllRead marks every unread notification read and returns the count.
	MarkAllRead(ctx context.Context) (int64, error)
}

// ProductRepository defines data access for products.
type ProductRepository interface {
	// GetAll retrieves products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a product by id. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple products by their ids.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update persists all mutable product fields.
	Update(ctx context.Context, product *model.Product) error
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Callers racing on find-or-create use this to fall back to a
// lookup instead of surfacing a 500.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
