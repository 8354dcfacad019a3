package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/pricing"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// ProductStore is the persistence the product admin service needs.
type ProductStore interface {
	AllAdmin(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
}

// allProducts adapts AllAdmin to a listing Source.
type allProducts struct{ store ProductStore }

func (a allProducts) All(ctx context.Context) ([]models.Product, error) {
	return a.store.AllAdmin(ctx)
}

// ProductAdminService handles product CRUD for the back office.
type ProductAdminService struct {
	store   ProductStore
	tiers   pricing.DeliveryTable
	listing *ListingService[models.Product]
}

// NewProductAdminService constructs a ProductAdminService. Delivery tiers
// listed on a product must exist in tiers.
func NewProductAdminService(store ProductStore, tiers pricing.DeliveryTable, lowStockThreshold int) *ProductAdminService {
	return &ProductAdminService{
		store:   store,
		tiers:   tiers,
		listing: NewListingService[models.Product]("admin-products", allProducts{store}, lowStockThreshold),
	}
}

// ProductRequest is the admin payload for creating or replacing a product.
type ProductRequest struct {
	SKUCode       string          `json:"skuCode" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Category      string          `json:"category" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Rating        float64         `json:"rating"`
	InStock       bool            `json:"inStock"`
	StockQuantity int             `json:"stockQuantity"`
	Warranty      string          `json:"warranty"`
	DeliveryTiers []string        `json:"deliveryTiers"`
	IsActive      *bool           `json:"isActive"`
}

func (r *ProductRequest) toModel(p *models.Product, tiers pricing.DeliveryTable) error {
	switch {
	case r.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", utils.ErrInvalidProduct)
	case r.StockQuantity < 0:
		return fmt.Errorf("%w: stockQuantity must not be negative", utils.ErrInvalidProduct)
	case r.Rating < 0 || r.Rating > 5:
		return fmt.Errorf("%w: rating must be between 0 and 5", utils.ErrInvalidProduct)
	}

	delivery := make(pq.StringArray, 0, len(r.DeliveryTiers))
	for _, t := range r.DeliveryTiers {
		t = strings.ToLower(strings.TrimSpace(t))
		if _, ok := tiers[t]; !ok {
			return fmt.Errorf("%w: unknown delivery tier %q", utils.ErrInvalidProduct, t)
		}
		delivery = append(delivery, t)
	}

	p.SkuCode = strings.TrimSpace(r.SKUCode)
	p.Name = strings.TrimSpace(r.Name)
	p.Category = strings.TrimSpace(r.Category)
	p.Description = r.Description
	p.Price = r.Price
	p.Rating = r.Rating
	p.InStock = r.InStock
	p.StockQuantity = r.StockQuantity
	p.Warranty = strings.TrimSpace(r.Warranty)
	p.DeliveryTiers = delivery
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return nil
}

// List runs an engine query over every product, inactive ones included.
func (s *ProductAdminService) List(ctx context.Context, q catalog.Query) (catalog.Result[models.Product], error) {
	return s.listing.Query(ctx, q)
}

// Get returns product id.
func (s *ProductAdminService) Get(ctx context.Context, id int) (*models.Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrProductNotFound
	}
	return p, err
}

// Create adds a product. New products are active unless the request says otherwise.
func (s *ProductAdminService) Create(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	p := &models.Product{IsActive: true}
	if err := req.toModel(p, s.tiers); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrDuplicateSKU
		}
		return nil, err
	}
	return p, nil
}

// Update replaces product id.
func (s *ProductAdminService) Update(ctx context.Context, id int, req *ProductRequest) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.toModel(p, s.tiers); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, utils.ErrDuplicateSKU
		case errors.Is(err, sql.ErrNoRows):
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete removes product id.
func (s *ProductAdminService) Delete(ctx context.Context, id int) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrProductNotFound
	}
	return err
}
