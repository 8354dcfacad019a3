// Package pricing holds the checkout arithmetic: coupon evaluation and
// order totals. Everything here is pure; lookups and usage accounting
// belong to the callers.
package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// RejectionReason is the typed cause of a coupon being refused.
type RejectionReason string

const (
	ReasonNotFound           RejectionReason = "COUPON_NOT_FOUND"
	ReasonInactive           RejectionReason = "COUPON_INACTIVE"
	ReasonExpired            RejectionReason = "COUPON_EXPIRED"
	ReasonUsageLimitExceeded RejectionReason = "COUPON_USAGE_LIMIT_EXCEEDED"
	ReasonMinOrderNotMet     RejectionReason = "COUPON_MIN_ORDER_NOT_MET"
)

// Detail values for ReasonExpired.
const (
	DetailNotStarted = "not_started"
	DetailEnded      = "ended"
)

// Rejection explains why a coupon cannot be applied. It is meant to be
// shown to the shopper, not treated as a failure of the request.
type Rejection struct {
	Reason RejectionReason `json:"reason"`
	Detail string          `json:"detail,omitempty"`
	// Shortfall is set for ReasonMinOrderNotMet.
	Shortfall decimal.Decimal `json:"shortfall"`
}

// Error implements error so a rejection can travel through error returns.
func (r *Rejection) Error() string {
	if r.Detail != "" {
		return fmt.Sprintf("coupon rejected: %s (%s)", r.Reason, r.Detail)
	}
	return fmt.Sprintf("coupon rejected: %s", r.Reason)
}

// Message returns a shopper-facing explanation.
func (r *Rejection) Message() string {
	switch r.Reason {
	case ReasonNotFound:
		return "Coupon code not found"
	case ReasonInactive:
		return "Coupon is no longer active"
	case ReasonExpired:
		if r.Detail == DetailNotStarted {
			return "Coupon is not valid yet"
		}
		return "Coupon has expired"
	case ReasonUsageLimitExceeded:
		return "Coupon usage limit has been reached"
	case ReasonMinOrderNotMet:
		return fmt.Sprintf("Add %s more to use this coupon", r.Shortfall.StringFixed(2))
	default:
		return "Coupon cannot be applied"
	}
}

// Evaluation is the outcome of checking a coupon against a subtotal.
// Exactly one of Discount (when Rejection is nil) or Rejection applies.
type Evaluation struct {
	Coupon    *models.Coupon
	Discount  decimal.Decimal
	Rejection *Rejection
}

// OK reports whether the coupon can be applied.
func (e Evaluation) OK() bool {
	return e.Rejection == nil
}

func reject(c *models.Coupon, reason RejectionReason, detail string) Evaluation {
	return Evaluation{Coupon: c, Discount: decimal.Zero, Rejection: &Rejection{Reason: reason, Detail: detail}}
}

// Evaluate runs the coupon rules in order and stops at the first failure:
// existence, active flag, validity window, usage limit, minimum order.
// A nil coupon means the lookup found nothing. Usage is not consumed here.
func Evaluate(c *models.Coupon, subtotal decimal.Decimal, now time.Time) Evaluation {
	if c == nil {
		return reject(nil, ReasonNotFound, "")
	}
	if !c.IsActive {
		return reject(c, ReasonInactive, "")
	}
	if !c.ValidFrom.IsZero() && now.Before(c.ValidFrom) {
		return reject(c, ReasonExpired, DetailNotStarted)
	}
	if !c.ValidUntil.IsZero() && now.After(c.ValidUntil) {
		return reject(c, ReasonExpired, DetailEnded)
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return reject(c, ReasonUsageLimitExceeded, "")
	}
	if c.MinOrderAmount.Valid && subtotal.LessThan(c.MinOrderAmount.Decimal) {
		ev := reject(c, ReasonMinOrderNotMet, "")
		ev.Rejection.Shortfall = c.MinOrderAmount.Decimal.Sub(subtotal)
		return ev
	}

	return Evaluation{Coupon: c, Discount: DiscountFor(c, subtotal)}
}

// DiscountFor computes the discount a valid coupon grants on subtotal.
// The result always lies in [0, subtotal]; percentage coupons are capped by
// MaxDiscount first.
func DiscountFor(c *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch c.DiscountType {
	case models.DiscountPercentage:
		discount = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
		if c.MaxDiscount.Valid {
			discount = decimal.Min(discount, c.MaxDiscount.Decimal)
		}
	case models.DiscountFixed:
		discount = c.Value
	default:
		return decimal.Zero
	}

	return clamp(discount, decimal.Zero, subtotal)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(v, hi))
}
