package models

import (
	"strconv"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
)

// Research is a published research entry (paper, white paper, report).
type Research struct {
	ID          int            `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	DOI         string         `db:"doi" json:"doi"`
	Category    string         `db:"category" json:"category"`
	Abstract    string         `db:"abstract" json:"abstract"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	Year        int            `db:"year" json:"year"`
	Citations   int            `db:"citations" json:"citations"`
	PublishedAt *time.Time     `db:"published_at" json:"publishedAt,omitempty"`
}

// Attributes exposes the entry to the catalog engine. Citations stand in
// for stock so "stock" ordering lists the most cited work first.
func (r Research) Attributes() catalog.Attributes {
	attrs := catalog.Attributes{
		ID:            strconv.Itoa(r.ID),
		SKU:           r.DOI,
		Name:          r.Title,
		Category:      r.Category,
		InStock:       true,
		StockQuantity: r.Citations,
		Facets: map[string][]string{
			FacetTags: []string(r.Tags),
		},
		Ranges: map[string]decimal.Decimal{
			RangeYear: decimal.NewFromInt(int64(r.Year)),
		},
	}
	if r.PublishedAt != nil {
		attrs.CreatedAt = *r.PublishedAt
	}
	return attrs
}
