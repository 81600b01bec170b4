package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopstack/internal/model"
	"shopstack/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// couponService implements CouponService.
type couponService struct {
	couponRepo repository.CouponRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewCouponService creates a new coupon service.
func NewCouponService(couponRepo repository.CouponRepository, logger zerolog.Logger) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		logger:     logger.With().Str("service", "coupon").Logger(),
		now:        time.Now,
	}
}

var oneHundred = decimal.NewFromInt(100)

// Validate checks a coupon code against the cart amount and computes the
// discount. It is read-only: redemption tracking (usedCount) is the
// responsibility of the order completion path, not validation.
func (s *couponService) Validate(ctx context.Context, code string, cartAmount decimal.Decimal) (*model.CouponDiscount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, model.NewValidationError("coupon code is required")
	}
	if cartAmount.IsNegative() {
		return nil, model.NewValidationError("cart amount cannot be negative")
	}

	coupon, err := s.couponRepo.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to validate coupon: %w", err)
	}
	if coupon == nil {
		return nil, model.NewNotFoundError("invalid coupon code")
	}

	now := s.now()
	if now.Before(coupon.StartDate) {
		s.logger.Debug().Str("code", code).Msg("coupon not yet active")
		return nil, model.NewValidationError("coupon is not active yet")
	}
	if now.After(coupon.EndDate) {
		s.logger.Debug().Str("code", code).Msg("coupon expired")
		return nil, model.NewValidationError("coupon has expired")
	}

	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		s.logger.Debug().Str("code", code).Int("used_count", coupon.UsedCount).Msg("coupon usage limit reached")
		return nil, model.NewValidationError("coupon usage limit reached")
	}

	if coupon.MinPurchaseAmount != nil && cartAmount.LessThan(*coupon.MinPurchaseAmount) {
		return nil, model.NewValidationError(fmt.Sprintf(
			"minimum purchase amount of %s required", coupon.MinPurchaseAmount.StringFixed(2)))
	}

	discount := computeDiscount(coupon, cartAmount)

	result := &model.CouponDiscount{
		Code:           coupon.Code,
		DiscountType:   coupon.DiscountType,
		DiscountValue:  coupon.DiscountValue,
		DiscountAmount: discount,
	}
	if coupon.DiscountType == model.DiscountPercentage {
		result.DiscountPercentage = coupon.DiscountValue
	}

	s.logger.Debug().
		Str("code", code).
		Str("discount", discount.String()).
		Msg("coupon validated")

	return result, nil
}

// computeDiscount applies the coupon rule to the cart amount. The discount
// never exceeds the cart amount; percentage discounts are additionally
// clamped to maxDiscountAmount when set.
func computeDiscount(coupon *model.Coupon, cartAmount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal

	switch coupon.DiscountType {
	case model.DiscountPercentage:
		discount = cartAmount.Mul(coupon.DiscountValue).Div(oneHundred)
		if coupon.MaxDiscountAmount != nil && discount.GreaterThan(*coupon.MaxDiscountAmount) {
			discount = *coupon.MaxDiscountAmount
		}
	case model.DiscountFixed:
		discount = coupon.DiscountValue
	}

	if discount.GreaterThan(cartAmount) {
		discount = cartAmount
	}

	return discount.Round(2)
}
