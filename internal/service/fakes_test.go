package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/repository"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int { return &v }

type fakeCouponStore struct {
	mu      sync.Mutex
	nextID  int
	coupons map[int]*models.Coupon
	failGet error
}

func newFakeCouponStore(coupons ...*models.Coupon) *fakeCouponStore {
	s := &fakeCouponStore{coupons: map[int]*models.Coupon{}}
	for _, c := range coupons {
		s.nextID++
		c.ID = s.nextID
		s.coupons[c.ID] = c
	}
	return s
}

func (s *fakeCouponStore) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return nil, s.failGet
	}
	for _, c := range s.coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeCouponStore) GetByID(_ context.Context, id int) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCouponStore) List(context.Context) ([]models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Coupon{}
	for _, c := range s.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (s *fakeCouponStore) Create(_ context.Context, c *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.coupons {
		if existing.Code == c.Code {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	c.ID = s.nextID
	cp := *c
	s.coupons[c.ID] = &cp
	return nil
}

func (s *fakeCouponStore) Update(_ context.Context, c *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.coupons[c.ID]
	if !ok {
		return sql.ErrNoRows
	}
	for _, other := range s.coupons {
		if other.ID != c.ID && other.Code == c.Code {
			return repository.ErrDuplicate
		}
	}
	c.UsageCount = existing.UsageCount
	cp := *c
	s.coupons[c.ID] = &cp
	return nil
}

func (s *fakeCouponStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coupons[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.coupons, id)
	return nil
}

// incrementUsage mirrors the conditional UPDATE of the SQL repository.
func (s *fakeCouponStore) incrementUsage(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok || !c.IsActive || (c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit) {
		return repository.ErrCouponUnavailable
	}
	c.UsageCount++
	return nil
}

func (s *fakeCouponStore) usage(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupons[id].UsageCount
}

type fakeOrderStore struct {
	mu       sync.Mutex
	coupons  *fakeCouponStore
	products *fakeProductStore
	orders   []*models.Order
	failErr  error
}

func (s *fakeOrderStore) Place(_ context.Context, order *models.Order) error {
	if s.failErr != nil {
		return s.failErr
	}
	if s.products != nil {
		if err := s.products.reserve(order.Items); err != nil {
			return err
		}
	}
	if order.CouponID != nil {
		if err := s.coupons.incrementUsage(*order.CouponID); err != nil {
			if s.products != nil {
				s.products.release(order.Items)
			}
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = len(s.orders) + 1
	s.orders = append(s.orders, order)
	return nil
}

func (s *fakeOrderStore) GetByNumber(_ context.Context, number string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeOrderStore) ListPaged(_ context.Context, page, limit int) ([]models.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	start := (page - 1) * limit
	for i := start; i < len(s.orders) && i < start+limit; i++ {
		out = append(out, *s.orders[i])
	}
	return out, len(s.orders), nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type fakeProductStore struct {
	mu       sync.Mutex
	products map[int]*models.Product
	failAll  error
}

func newFakeProductStore(products ...models.Product) *fakeProductStore {
	s := &fakeProductStore{products: map[int]*models.Product{}}
	for i := range products {
		p := products[i]
		s.products[p.ID] = &p
	}
	return s
}

func (s *fakeProductStore) All(ctx context.Context) ([]models.Product, error) {
	all, err := s.AllAdmin(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProductStore) AllAdmin(context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	out := []models.Product{}
	for id := 1; len(out) < len(s.products) && id < 10000; id++ {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeProductStore) GetByID(_ context.Context, id int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProductStore) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if existing.SkuCode == p.SkuCode {
			return repository.ErrDuplicate
		}
	}
	p.ID = len(s.products) + 1
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *fakeProductStore) Update(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.products, id)
	return nil
}

// put inserts or replaces a product.
func (s *fakeProductStore) put(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = &p
}

func (s *fakeProductStore) edit(id int, fn func(p *models.Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.products[id])
}

func (s *fakeProductStore) has(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.products[id]
	return ok
}

// reserve takes stock for every item or for none, like the order transaction.
func (s *fakeProductStore) reserve(items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		p, ok := s.products[it.ProductID]
		if !ok || !p.IsActive || !p.InStock || p.StockQuantity < it.Quantity {
			return repository.ErrStockUnavailable
		}
	}
	for _, it := range items {
		p := s.products[it.ProductID]
		p.StockQuantity -= it.Quantity
		p.InStock = p.StockQuantity > 0
	}
	return nil
}

func (s *fakeProductStore) release(items []models.OrderItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if p, ok := s.products[it.ProductID]; ok {
			p.StockQuantity += it.Quantity
			p.InStock = true
		}
	}
}

var errStoreDown = errors.New("store down")
