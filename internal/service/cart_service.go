package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GTDGit/gtd_storefront/internal/clock"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// CartStore keeps one cart per session. Get returns an empty cart for an
// unknown session.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*models.Cart, error)
	Set(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// ProductLookup resolves a product for cart operations.
type ProductLookup interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
}

// CartService manages session carts. Prices are captured from the product
// when a line is added or changed.
type CartService struct {
	store    CartStore
	products ProductLookup
	clock    clock.Clock
}

func NewCartService(store CartStore, products ProductLookup, clk clock.Clock) *CartService {
	return &CartService{store: store, products: products, clock: clk}
}

// Get returns the session cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	return s.store.Get(ctx, sessionID)
}

// AddItem adds quantity units of a product, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, utils.ErrInvalidQuantity
	}
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if i := cart.Find(productID); i >= 0 {
		quantity += cart.Items[i].Quantity
	}
	return s.setLine(ctx, cart, productID, quantity)
}

// UpdateItem sets the quantity of a line. Zero removes it.
func (s *CartService) UpdateItem(ctx context.Context, sessionID string, productID, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, utils.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.setLine(ctx, cart, productID, quantity)
}

// RemoveItem drops a line. Removing an absent line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if i := cart.Find(productID); i >= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		if err := s.save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}

// Clear empties the session cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

func (s *CartService) setLine(ctx context.Context, cart *models.Cart, productID, quantity int) (*models.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !product.IsActive) {
		return nil, utils.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if !product.InStock || product.StockQuantity < quantity {
		return nil, utils.ErrProductUnavailable
	}

	line := models.CartItem{
		ProductID: product.ID,
		SkuCode:   product.SkuCode,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	}
	if i := cart.Find(productID); i >= 0 {
		cart.Items[i] = line
	} else {
		cart.Items = append(cart.Items, line)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = s.clock.Now()
	return s.store.Set(ctx, cart)
}
