package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/clock"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/pricing"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// CouponStore is the persistence the coupon service needs.
type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	GetByID(ctx context.Context, id int) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	Update(ctx context.Context, c *models.Coupon) error
	Delete(ctx context.Context, id int) error
}

// CouponService validates coupon codes for shoppers and manages coupons for admins.
type CouponService struct {
	store CouponStore
	clock clock.Clock
}

// NewCouponService constructs a CouponService.
func NewCouponService(store CouponStore, clk clock.Clock) *CouponService {
	return &CouponService{store: store, clock: clk}
}

// Lookup fetches a coupon by code. An unknown code is (nil, nil).
func (s *CouponService) Lookup(ctx context.Context, code string) (*models.Coupon, error) {
	code = models.NormalizeCouponCode(code)
	if code == "" {
		return nil, nil
	}
	c, err := s.store.GetByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup coupon: %w", err)
	}
	return c, nil
}

// Validate checks code against subtotal at the current time. Rejections are
// part of the returned Evaluation; the error is reserved for storage failures.
// Validation never consumes a redemption.
func (s *CouponService) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (pricing.Evaluation, error) {
	c, err := s.Lookup(ctx, code)
	if err != nil {
		return pricing.Evaluation{}, err
	}
	ev := pricing.Evaluate(c, subtotal, s.clock.Now())
	if !ev.OK() {
		log.Debug().
			Str("code", models.NormalizeCouponCode(code)).
			Str("reason", string(ev.Rejection.Reason)).
			Msg("coupon rejected")
	}
	return ev, nil
}

// CouponRequest is the admin payload for creating or replacing a coupon.
type CouponRequest struct {
	Code           string              `json:"code" binding:"required"`
	Description    string              `json:"description"`
	DiscountType   models.DiscountType `json:"discountType" binding:"required"`
	Value          decimal.Decimal     `json:"discountValue"`
	MinOrderAmount decimal.NullDecimal `json:"minOrderAmount"`
	MaxDiscount    decimal.NullDecimal `json:"maxDiscount"`
	UsageLimit     *int                `json:"usageLimit"`
	IsActive       *bool               `json:"isActive"`
	ValidFrom      *time.Time          `json:"validFrom"`
	ValidUntil     time.Time           `json:"validUntil" binding:"required"`
}

func (r *CouponRequest) validate() error {
	switch {
	case models.NormalizeCouponCode(r.Code) == "":
		return fmt.Errorf("%w: code is required", utils.ErrInvalidCoupon)
	case !r.DiscountType.Valid():
		return fmt.Errorf("%w: discountType must be 'percentage' or 'fixed'", utils.ErrInvalidCoupon)
	case !r.Value.IsPositive():
		return fmt.Errorf("%w: discountValue must be positive", utils.ErrInvalidCoupon)
	case r.DiscountType == models.DiscountPercentage && r.Value.GreaterThan(decimal.NewFromInt(100)):
		return fmt.Errorf("%w: percentage discount cannot exceed 100", utils.ErrInvalidCoupon)
	case r.MinOrderAmount.Valid && r.MinOrderAmount.Decimal.IsNegative():
		return fmt.Errorf("%w: minOrderAmount must not be negative", utils.ErrInvalidCoupon)
	case r.MaxDiscount.Valid && !r.MaxDiscount.Decimal.IsPositive():
		return fmt.Errorf("%w: maxDiscount must be positive", utils.ErrInvalidCoupon)
	case r.UsageLimit != nil && *r.UsageLimit < 1:
		return fmt.Errorf("%w: usageLimit must be at least 1", utils.ErrInvalidCoupon)
	case r.ValidFrom != nil && r.ValidUntil.Before(*r.ValidFrom):
		return fmt.Errorf("%w: validUntil is before validFrom", utils.ErrInvalidCoupon)
	}
	return nil
}

func (r *CouponRequest) apply(c *models.Coupon, now time.Time) {
	c.Code = models.NormalizeCouponCode(r.Code)
	c.Description = r.Description
	c.DiscountType = r.DiscountType
	c.Value = r.Value
	c.MinOrderAmount = r.MinOrderAmount
	c.MaxDiscount = r.MaxDiscount
	if c.DiscountType == models.DiscountFixed {
		c.MaxDiscount = decimal.NullDecimal{}
	}
	c.UsageLimit = r.UsageLimit
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
	c.ValidFrom = now
	if r.ValidFrom != nil {
		c.ValidFrom = *r.ValidFrom
	}
	c.ValidUntil = r.ValidUntil
}

// Create adds a coupon. Codes are stored trimmed and upper-cased and must be unique.
func (s *CouponService) Create(ctx context.Context, req *CouponRequest) (*models.Coupon, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	c := &models.Coupon{IsActive: true}
	req.apply(c, s.clock.Now())

	if err := s.store.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrDuplicateCoupon
		}
		return nil, err
	}
	log.Info().Str("code", c.Code).Int("coupon_id", c.ID).Msg("coupon created")
	return c, nil
}

// Update replaces the editable fields of coupon id. The usage count is kept.
func (s *CouponService) Update(ctx context.Context, id int, req *CouponRequest) (*models.Coupon, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(c, c.ValidFrom)

	if err := s.store.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, utils.ErrDuplicateCoupon
		case errors.Is(err, sql.ErrNoRows):
			return nil, utils.ErrCouponNotFound
		}
		return nil, err
	}
	return c, nil
}

// Get returns coupon id.
func (s *CouponService) Get(ctx context.Context, id int) (*models.Coupon, error) {
	c, err := s.store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrCouponNotFound
	}
	return c, err
}

// List returns every coupon, newest first.
func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	return s.store.List(ctx)
}

// Delete removes coupon id.
func (s *CouponService) Delete(ctx context.Context, id int) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrCouponNotFound
	}
	return err
}
