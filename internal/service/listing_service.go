package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
)

// Source loads the full record collection for one listing.
type Source[T catalog.Item] interface {
	All(ctx context.Context) ([]T, error)
}

// ListingService answers catalog queries for one record type. The whole
// collection is loaded per request and handed to the catalog engine.
type ListingService[T catalog.Item] struct {
	name              string
	source            Source[T]
	lowStockThreshold int
}

// NewListingService creates a listing for source. name is used in logs.
func NewListingService[T catalog.Item](name string, source Source[T], lowStockThreshold int) *ListingService[T] {
	return &ListingService[T]{name: name, source: source, lowStockThreshold: lowStockThreshold}
}

// Query filters, sorts and pages the collection. Malformed records are
// skipped and logged, never surfaced as an error.
func (s *ListingService[T]) Query(ctx context.Context, q catalog.Query) (catalog.Result[T], error) {
	items, err := s.source.All(ctx)
	if err != nil {
		return catalog.Result[T]{}, fmt.Errorf("load %s: %w", s.name, err)
	}

	// The threshold belongs to the listing, so a configured 0 (no record
	// counts as low stock) is applied as is.
	q.Criteria.LowStockThreshold = s.lowStockThreshold
	res := catalog.Run(items, q)

	for _, a := range res.Anomalies {
		log.Warn().
			Str("listing", s.name).
			Str("record_id", a.ID).
			Str("reason", a.Reason).
			Msg("skipping malformed catalog record")
	}
	return res, nil
}

// FacetSummary describes the values a listing can be filtered by.
type FacetSummary struct {
	Total      int                         `json:"total"`
	Categories []CategoryCount             `json:"categories"`
	Price      *Bounds                     `json:"price,omitempty"`
	Facets     map[string][]string         `json:"facets"`
	Ranges     map[string]Bounds           `json:"ranges"`
	Stock      map[catalog.StockStatus]int `json:"stock"`
}

// CategoryCount is one category with the number of records in it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Bounds is the observed minimum and maximum of a numeric attribute.
type Bounds struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

func (b *Bounds) extend(v decimal.Decimal) {
	b.Min = decimal.Min(b.Min, v)
	b.Max = decimal.Max(b.Max, v)
}

// Facets summarises the well-formed records of the collection so clients
// can build their filter controls.
func (s *ListingService[T]) Facets(ctx context.Context) (*FacetSummary, error) {
	items, err := s.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.name, err)
	}
	// Filtering with empty criteria drops exactly the malformed records.
	valid, _ := catalog.Filter(items, catalog.Criteria{})

	summary := &FacetSummary{
		Total:      len(valid),
		Categories: []CategoryCount{},
		Facets:     map[string][]string{},
		Ranges:     map[string]Bounds{},
		Stock:      map[catalog.StockStatus]int{},
	}
	categories := map[string]int{}
	facetValues := map[string]map[string]struct{}{}

	for _, item := range valid {
		a := item.Attributes()
		categories[a.Category]++

		if summary.Price == nil {
			summary.Price = &Bounds{Min: a.Price, Max: a.Price}
		} else {
			summary.Price.extend(a.Price)
		}

		for name, values := range a.Facets {
			if facetValues[name] == nil {
				facetValues[name] = map[string]struct{}{}
			}
			for _, v := range values {
				facetValues[name][v] = struct{}{}
			}
		}
		for name, v := range a.Ranges {
			b, ok := summary.Ranges[name]
			if !ok {
				b = Bounds{Min: v, Max: v}
			} else {
				b.extend(v)
			}
			summary.Ranges[name] = b
		}

		for _, status := range []catalog.StockStatus{catalog.StockInStock, catalog.StockLowStock, catalog.StockOutOfStock} {
			pred := catalog.Compose(catalog.Criteria{Stock: status, LowStockThreshold: s.lowStockThreshold})
			if pred(a) {
				summary.Stock[status]++
			}
		}
	}

	for name, count := range categories {
		summary.Categories = append(summary.Categories, CategoryCount{Name: name, Count: count})
	}
	slices.SortFunc(summary.Categories, func(a, b CategoryCount) int {
		return strings.Compare(a.Name, b.Name)
	})
	for name, set := range facetValues {
		values := make([]string, 0, len(set))
		for v := range set {
			values = append(values, v)
		}
		slices.Sort(values)
		summary.Facets[name] = values
	}
	return summary, nil
}
