package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Coupon is a named discount rule redeemable against an order subtotal.
// UsageCount only ever grows, one step per confirmed order.
type Coupon struct {
	ID             int                 `db:"id" json:"id"`
	Code           string              `db:"code" json:"code"`
	Description    string              `db:"description" json:"description"`
	DiscountType   DiscountType        `db:"discount_type" json:"discountType"`
	Value          decimal.Decimal     `db:"discount_value" json:"discountValue"`
	MinOrderAmount decimal.NullDecimal `db:"min_order_amount" json:"minOrderAmount"`
	MaxDiscount    decimal.NullDecimal `db:"max_discount" json:"maxDiscount"`
	UsageLimit     *int                `db:"usage_limit" json:"usageLimit"`
	UsageCount     int                 `db:"usage_count" json:"usageCount"`
	IsActive       bool                `db:"is_active" json:"isActive"`
	ValidFrom      time.Time           `db:"valid_from" json:"validFrom"`
	ValidUntil     time.Time           `db:"valid_until" json:"validUntil"`
	CreatedAt      time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time           `db:"updated_at" json:"updatedAt"`
}

// NormalizeCouponCode trims and upper-cases a coupon code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
