package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/gtd_storefront/internal/clock"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/pricing"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// OrderStore persists orders. Place must consume the coupon redemption,
// reserve stock and write the order atomically, failing with
// repository.ErrCouponUnavailable when the coupon has no redemptions left and
// repository.ErrStockUnavailable when a line can no longer be served.
type OrderStore interface {
	Place(ctx context.Context, order *models.Order) error
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListPaged(ctx context.Context, page, limit int) ([]models.Order, int, error)
}

// OrderNotifier is told about every order that was committed.
type OrderNotifier interface {
	NotifyOrderPlaced(order *models.Order)
}

// CheckoutService prices carts and turns them into orders.
type CheckoutService struct {
	carts    CartStore
	products ProductLookup
	coupons  *CouponService
	orders   OrderStore
	calc     *pricing.Calculator
	clock    clock.Clock
	notifier OrderNotifier
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(carts CartStore, products ProductLookup, coupons *CouponService, orders OrderStore, calc *pricing.Calculator, clk clock.Clock) *CheckoutService {
	return &CheckoutService{carts: carts, products: products, coupons: coupons, orders: orders, calc: calc, clock: clk}
}

// SetNotifier wires a listener for placed orders.
func (s *CheckoutService) SetNotifier(n OrderNotifier) {
	s.notifier = n
}

// QuoteRequest selects the delivery tier and an optional coupon.
type QuoteRequest struct {
	DeliveryTier string `json:"deliveryTier"`
	CouponCode   string `json:"couponCode"`
}

// Quote is a priced cart. Lines are priced from the current product, not
// from the cart snapshot. Lines that can no longer be ordered are listed in
// Unavailable and left out of the totals. When the coupon was refused
// Rejection explains why and the totals carry no discount.
type Quote struct {
	pricing.Totals
	Items       []models.CartItem  `json:"items"`
	Unavailable []UnavailableLine  `json:"unavailable,omitempty"`
	CouponCode  string             `json:"couponCode,omitempty"`
	Rejection   *pricing.Rejection `json:"couponRejection,omitempty"`

	coupon *models.Coupon
	lines  []models.CartItem
}

// Quote prices the session cart. The cart and the coupon are loaded
// concurrently.
func (s *CheckoutService) Quote(ctx context.Context, sessionID string, req QuoteRequest) (*Quote, error) {
	var (
		cart   *models.Cart
		coupon *models.Coupon
	)
	code := models.NormalizeCouponCode(req.CouponCode)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cart, err = s.carts.Get(gctx, sessionID)
		return err
	})
	if code != "" {
		g.Go(func() error {
			var err error
			coupon, err = s.coupons.Lookup(gctx, code)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lines, unavailable, err := s.currentLines(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	subtotal, _ := pricing.Subtotal(lines)
	q := &Quote{Items: lines, Unavailable: unavailable, CouponCode: code}
	var ev pricing.Evaluation
	if code != "" {
		ev = pricing.Evaluate(coupon, subtotal, s.clock.Now())
		if ev.OK() {
			q.coupon = coupon
		} else {
			q.Rejection = ev.Rejection
		}
	}
	q.Totals = s.calc.ComputeTotals(lines, req.DeliveryTier, ev.Discount)
	q.lines = wellFormed(lines)
	return q, nil
}

// UnavailableLine is a cart line the shop can no longer fill.
type UnavailableLine struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
	Reason    string `json:"reason"`
}

// currentLines re-reads the product behind every cart line and reprices it.
// Deleted, deactivated and short-stocked products are split off. Malformed
// lines pass through unchanged; pricing.Subtotal reports and skips them.
func (s *CheckoutService) currentLines(ctx context.Context, lines []models.CartItem) ([]models.CartItem, []UnavailableLine, error) {
	current := make([]models.CartItem, 0, len(lines))
	var unavailable []UnavailableLine

	for _, l := range lines {
		if l.Quantity < 1 || l.Price.IsNegative() {
			current = append(current, l)
			continue
		}

		product, err := s.products.GetByID(ctx, l.ProductID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !product.IsActive) {
			unavailable = append(unavailable, UnavailableLine{
				ProductID: l.ProductID,
				Name:      l.Name,
				Quantity:  l.Quantity,
				Reason:    utils.ErrProductNotFound.Error(),
			})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("load product %d: %w", l.ProductID, err)
		}

		if !product.InStock || product.StockQuantity < l.Quantity {
			available := 0
			if product.InStock {
				available = product.StockQuantity
			}
			unavailable = append(unavailable, UnavailableLine{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  l.Quantity,
				Available: available,
				Reason:    utils.ErrProductUnavailable.Error(),
			})
			continue
		}

		l.Name = product.Name
		l.SkuCode = product.SkuCode
		l.Price = product.Price
		current = append(current, l)
	}
	return current, unavailable, nil
}

func unavailableError(lines []UnavailableLine) error {
	names := make([]string, len(lines))
	for i, l := range lines {
		names[i] = l.Name
	}
	return fmt.Errorf("%w: no longer available: %s", utils.ErrProductUnavailable, strings.Join(names, ", "))
}

func wellFormed(lines []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 && !l.Price.IsNegative() {
			out = append(out, l)
		}
	}
	return out
}

// PlaceOrderRequest is the checkout form.
type PlaceOrderRequest struct {
	QuoteRequest
	CustomerName    string `json:"customerName" binding:"required"`
	CustomerEmail   string `json:"customerEmail" binding:"required,email"`
	ShippingAddress string `json:"shippingAddress" binding:"required"`
}

// PlaceOrder confirms the session cart as an order at current prices. A
// line that can no longer be filled aborts with utils.ErrProductUnavailable
// and a refused coupon aborts with the Rejection; nothing is written in
// either case. On success stock is reserved and the cart is cleared.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, req PlaceOrderRequest) (*models.Order, *pricing.Rejection, error) {
	q, err := s.Quote(ctx, sessionID, req.QuoteRequest)
	if err != nil {
		return nil, nil, err
	}
	if len(q.Unavailable) > 0 {
		return nil, nil, unavailableError(q.Unavailable)
	}
	if q.Rejection != nil {
		return nil, q.Rejection, nil
	}
	if len(q.lines) == 0 {
		return nil, nil, utils.ErrCartEmpty
	}

	order := &models.Order{
		OrderNumber:     utils.GenerateOrderNumber(s.clock.Now()),
		SessionID:       sessionID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		DeliveryTier:    q.DeliveryTier,
		Subtotal:        q.Subtotal,
		DeliveryCharge:  q.DeliveryCharge,
		Discount:        q.Discount,
		Total:           q.Total,
		Status:          models.OrderStatusPlaced,
		Items:           make([]models.OrderItem, 0, len(q.lines)),
	}
	if q.coupon != nil {
		order.CouponID = &q.coupon.ID
		order.CouponCode = &q.coupon.Code
	}
	for _, l := range q.lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.Price,
			Quantity:  l.Quantity,
			LineTotal: pricing.LineTotal(l),
		})
	}

	if err := s.orders.Place(ctx, order); err != nil {
		if errors.Is(err, repository.ErrCouponUnavailable) {
			// Another order took the last redemption between quote and commit.
			return nil, &pricing.Rejection{Reason: pricing.ReasonUsageLimitExceeded}, nil
		}
		if errors.Is(err, repository.ErrStockUnavailable) {
			return nil, nil, fmt.Errorf("%w: stock changed during checkout", utils.ErrProductUnavailable)
		}
		return nil, nil, err
	}

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("total", order.Total.StringFixed(2)).
		Str("coupon", q.CouponCode).
		Int("lines", len(order.Items)).
		Msg("order placed")

	if s.notifier != nil {
		s.notifier.NotifyOrderPlaced(order)
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		log.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to clear cart after order")
	}
	return order, nil, nil
}
