package repository

import (
	"context"
	"errors"
	"fmt"

	"shopstack/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// GetActiveByCode retrieves an active coupon by normalized code.
func (r *couponRepository) GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT id, code, discount_type, discount_value, min_purchase_amount,
		       max_discount_amount, start_date, end_date, usage_limit, used_count,
		       is_active, created_at
		FROM coupons
		WHERE code = $1 AND is_active = TRUE
	`

	var c model.Coupon
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinPurchaseAmount,
		&c.MaxDiscountAmount,
		&c.StartDate,
		&c.EndDate,
		&c.UsageLimit,
		&c.UsedCount,
		&c.IsActive,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &c, nil
}

// Create inserts a new coupon.
func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (
			id, code, discount_type, discount_value, min_purchase_amount,
			max_discount_amount, start_date, end_date, usage_limit, used_count,
			is_active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.DiscountType,
		coupon.DiscountValue,
		coupon.MinPurchaseAmount,
		coupon.MaxDiscountAmount,
		coupon.StartDate,
		coupon.EndDate,
		coupon.UsageLimit,
		coupon.UsedCount,
		coupon.IsActive,
		coupon.CreatedAt,
	)
	if err != nil {
		if !IsUniqueViolation(err) {
			r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to create coupon")
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	r.logger.Debug().Str("code", coupon.Code).Msg("coupon created successfully")

	return nil
}
