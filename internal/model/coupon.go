package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage of the cart amount, optionally
	// capped by MaxDiscountAmount.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies a fixed monetary discount capped at the cart
	// amount.
	DiscountFixed DiscountType = "fixed"
)

// Coupon is a discount rule. Codes are unique, case-insensitive via
// uppercasing. UsedCount is not incremented by validation; redemption
// tracking is a caller responsibility.
type Coupon struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	Code              string           `json:"code" db:"code"`
	DiscountType      DiscountType     `json:"discountType" db:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discountValue" db:"discount_value"`
	MinPurchaseAmount *decimal.Decimal `json:"minPurchaseAmount,omitempty" db:"min_purchase_amount"`
	MaxDiscountAmount *decimal.Decimal `json:"maxDiscountAmount,omitempty" db:"max_discount_amount"`
	StartDate         time.Time        `json:"startDate" db:"start_date"`
	EndDate           time.Time        `json:"endDate" db:"end_date"`
	UsageLimit        *int             `json:"usageLimit,omitempty" db:"usage_limit"`
	UsedCount         int              `json:"usedCount" db:"used_count"`
	IsActive          bool             `json:"isActive" db:"is_active"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
}

// CouponDiscount is the result of validating a coupon against a cart amount.
type CouponDiscount struct {
	Code               string          `json:"code"`
	DiscountType       DiscountType    `json:"discountType"`
	DiscountValue      decimal.Decimal `json:"discountValue"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
}

// ValidateCouponRequest is the storefront coupon validation payload.
type ValidateCouponRequest struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}
