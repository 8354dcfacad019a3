package models

import (
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
)

// Facet and range names exposed by catalog listings.
const (
	FacetWarranty = "warranty"
	FacetDelivery = "delivery"
	FacetTech     = "tech"
	FacetTags     = "tags"

	RangeBudget   = "budget"
	RangeDuration = "duration"
	RangeTeamSize = "teamSize"
	RangeYear     = "year"
)

// Product represents a hardware product in the catalog.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID            int             `db:"id" json:"id"`
	SkuCode       string          `db:"sku_code" json:"skuCode"`
	Name          string          `db:"name" json:"name"`
	Category      string          `db:"category" json:"category"`
	Description   string          `db:"description" json:"description"`
	Price         decimal.Decimal `db:"price" json:"price"`
	Rating        float64         `db:"rating" json:"rating"`
	InStock       bool            `db:"in_stock" json:"inStock"`
	StockQuantity int             `db:"stock_quantity" json:"stockQuantity"`
	Warranty      string          `db:"warranty" json:"warranty"`
	DeliveryTiers pq.StringArray  `db:"delivery_tiers" json:"deliveryTiers"`
	IsActive      bool            `db:"is_active" json:"isActive"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// Attributes exposes the product to the catalog engine.
func (p Product) Attributes() catalog.Attributes {
	facets := map[string][]string{
		FacetDelivery: []string(p.DeliveryTiers),
	}
	if p.Warranty != "" {
		facets[FacetWarranty] = []string{p.Warranty}
	}
	return catalog.Attributes{
		ID:            strconv.Itoa(p.ID),
		SKU:           p.SkuCode,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		Rating:        p.Rating,
		InStock:       p.InStock,
		StockQuantity: p.StockQuantity,
		Facets:        facets,
		CreatedAt:     p.CreatedAt,
	}
}
