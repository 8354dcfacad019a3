package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_storefront/internal/clock"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/pricing"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func percentCoupon(code string, value string) *models.Coupon {
	return &models.Coupon{
		Code:         code,
		DiscountType: models.DiscountPercentage,
		Value:        dec(value),
		IsActive:     true,
		ValidFrom:    testNow.AddDate(0, -1, 0),
		ValidUntil:   testNow.AddDate(0, 1, 0),
	}
}

func TestCouponService_Validate(t *testing.T) {
	c := percentCoupon("SAVE20", "20")
	c.MaxDiscount = decimal.NewNullDecimal(dec("1000"))
	svc := NewCouponService(newFakeCouponStore(c), clock.NewFixed(testNow))

	ev, err := svc.Validate(context.Background(), " save20 ", dec("10000"))

	require.NoError(t, err)
	require.True(t, ev.OK())
	assert.True(t, ev.Discount.Equal(dec("1000")))
}

func TestCouponService_ValidateUnknownCode(t *testing.T) {
	svc := NewCouponService(newFakeCouponStore(), clock.NewFixed(testNow))

	ev, err := svc.Validate(context.Background(), "NOPE", dec("100"))

	require.NoError(t, err)
	require.False(t, ev.OK())
	assert.Equal(t, pricing.ReasonNotFound, ev.Rejection.Reason)
}

func TestCouponService_ValidateUsesClock(t *testing.T) {
	clk := clock.NewFixed(testNow)
	svc := NewCouponService(newFakeCouponStore(percentCoupon("SAVE20", "20")), clk)

	clk.Advance(60 * 24 * time.Hour)
	ev, err := svc.Validate(context.Background(), "SAVE20", dec("100"))

	require.NoError(t, err)
	require.False(t, ev.OK())
	assert.Equal(t, pricing.ReasonExpired, ev.Rejection.Reason)
	assert.Equal(t, pricing.DetailEnded, ev.Rejection.Detail)
}

func TestCouponService_ValidateStoreError(t *testing.T) {
	store := newFakeCouponStore()
	store.failGet = errStoreDown
	svc := NewCouponService(store, clock.NewFixed(testNow))

	_, err := svc.Validate(context.Background(), "SAVE20", dec("100"))

	assert.ErrorIs(t, err, errStoreDown)
}

func couponRequest() *CouponRequest {
	return &CouponRequest{
		Code:         " spring10 ",
		DiscountType: models.DiscountPercentage,
		Value:        dec("10"),
		MaxDiscount:  decimal.NewNullDecimal(dec("500")),
		UsageLimit:   intPtr(100),
		ValidUntil:   testNow.AddDate(0, 2, 0),
	}
}

func TestCouponService_CreateNormalisesCode(t *testing.T) {
	svc := NewCouponService(newFakeCouponStore(), clock.NewFixed(testNow))

	c, err := svc.Create(context.Background(), couponRequest())

	require.NoError(t, err)
	assert.Equal(t, "SPRING10", c.Code)
	assert.True(t, c.IsActive)
	assert.Equal(t, testNow, c.ValidFrom)
}

func TestCouponService_CreateDuplicate(t *testing.T) {
	svc := NewCouponService(newFakeCouponStore(), clock.NewFixed(testNow))
	_, err := svc.Create(context.Background(), couponRequest())
	require.NoError(t, err)

	req := couponRequest()
	req.Code = "Spring10"
	_, err = svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, utils.ErrDuplicateCoupon)
}

func TestCouponService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CouponRequest)
	}{
		{"blank code", func(r *CouponRequest) { r.Code = "  " }},
		{"unknown type", func(r *CouponRequest) { r.DiscountType = "bogo" }},
		{"zero value", func(r *CouponRequest) { r.Value = decimal.Zero }},
		{"percentage above 100", func(r *CouponRequest) { r.Value = dec("120") }},
		{"negative min order", func(r *CouponRequest) { r.MinOrderAmount = decimal.NewNullDecimal(dec("-1")) }},
		{"zero cap", func(r *CouponRequest) { r.MaxDiscount = decimal.NewNullDecimal(decimal.Zero) }},
		{"zero usage limit", func(r *CouponRequest) { r.UsageLimit = intPtr(0) }},
		{"window reversed", func(r *CouponRequest) {
			from := r.ValidUntil.Add(time.Hour)
			r.ValidFrom = &from
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCouponService(newFakeCouponStore(), clock.NewFixed(testNow))
			req := couponRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)

			assert.ErrorIs(t, err, utils.ErrInvalidCoupon)
		})
	}
}

func TestCouponService_FixedCouponDropsCap(t *testing.T) {
	svc := NewCouponService(newFakeCouponStore(), clock.NewFixed(testNow))
	req := couponRequest()
	req.DiscountType = models.DiscountFixed
	req.Value = dec("250")

	c, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, c.MaxDiscount.Valid)
}

func TestCouponService_UpdateKeepsUsageAndWindowStart(t *testing.T) {
	existing := percentCoupon("SAVE20", "20")
	existing.UsageCount = 7
	store := newFakeCouponStore(existing)
	svc := NewCouponService(store, clock.NewFixed(testNow))

	req := couponRequest()
	inactive := false
	req.IsActive = &inactive
	c, err := svc.Update(context.Background(), existing.ID, req)

	require.NoError(t, err)
	assert.Equal(t, 7, c.UsageCount)
	assert.Equal(t, existing.ValidFrom, c.ValidFrom)
	assert.False(t, c.IsActive)
	assert.Equal(t, "SPRING10", c.Code)
}

func TestCouponService_NotFound(t *testing.T) {
	svc := NewCouponService(newFakeCouponStore(), clock.NewFixed(testNow))

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, utils.ErrCouponNotFound)

	_, err = svc.Update(context.Background(), 42, couponRequest())
	assert.ErrorIs(t, err, utils.ErrCouponNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 42), utils.ErrCouponNotFound)
}
