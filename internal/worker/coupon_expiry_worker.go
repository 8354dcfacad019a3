package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/clock"
)

// CouponExpirer switches off coupons whose validity window has ended.
type CouponExpirer interface {
	DeactivateExpired(ctx context.Context, now time.Time) ([]string, error)
}

// ExpiryNotifier is told which coupons a sweep switched off.
type ExpiryNotifier interface {
	NotifyCouponsExpired(codes []string)
}

// CouponExpiryWorker periodically deactivates expired coupons so the admin
// views show them as inactive. Evaluation already refuses them by date;
// this keeps the stored flag in line.
type CouponExpiryWorker struct {
	coupons  CouponExpirer
	clock    clock.Clock
	interval time.Duration
	notifier ExpiryNotifier
}

// NewCouponExpiryWorker constructs a CouponExpiryWorker.
func NewCouponExpiryWorker(coupons CouponExpirer, clk clock.Clock, interval time.Duration) *CouponExpiryWorker {
	return &CouponExpiryWorker{
		coupons:  coupons,
		clock:    clk,
		interval: interval,
	}
}

// SetNotifier publishes each non-empty sweep to n.
func (w *CouponExpiryWorker) SetNotifier(n ExpiryNotifier) {
	w.notifier = n
}

// Start runs one sweep immediately, then one per interval until ctx is canceled.
func (w *CouponExpiryWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Info().Msg("Coupon expiry worker disabled")
		return
	}
	log.Info().Dur("interval", w.interval).Msg("Starting coupon expiry worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.run(ctx)
	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Coupon expiry worker stopped")
			return
		}
	}
}

func (w *CouponExpiryWorker) run(ctx context.Context) {
	codes, err := w.coupons.DeactivateExpired(ctx, w.clock.Now())
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("Failed to deactivate expired coupons")
		}
		return
	}
	if len(codes) > 0 {
		log.Info().Strs("codes", codes).Int("count", len(codes)).Msg("Deactivated expired coupons")
		if w.notifier != nil {
			w.notifier.NotifyCouponsExpired(codes)
		}
	}
}
