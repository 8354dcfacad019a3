// Package catalog implements the listing query engine shared by every
// catalog page: a record collection is filtered by independent facets,
// ordered by a sort key and cut into pages. All functions are pure; they
// never mutate their input and keep no state between calls.
package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAll is the category value that imposes no constraint.
const CategoryAll = "all"

// Attributes is the queryable view of one record. Listing domains expose
// their rows through it so the engine never depends on a concrete model.
type Attributes struct {
	ID            string
	SKU           string
	Name          string
	Category      string
	Price         decimal.Decimal
	Rating        float64
	InStock       bool
	StockQuantity int
	// Facets holds multi-valued tag groups, e.g. "warranty" or "tech".
	Facets map[string][]string
	// Ranges holds numeric facets, e.g. "budget" or "duration".
	Ranges    map[string]decimal.Decimal
	CreatedAt time.Time
}

// Item is implemented by every record type a listing can serve.
type Item interface {
	Attributes() Attributes
}

// StockStatus selects records by availability.
type StockStatus string

const (
	StockAny        StockStatus = "any"
	StockInStock    StockStatus = "in-stock"
	StockLowStock   StockStatus = "low-stock"
	StockOutOfStock StockStatus = "out-of-stock"
)

// ParseStockStatus maps a query value to a StockStatus. Empty and unknown
// values mean no constraint.
func ParseStockStatus(raw string) StockStatus {
	switch StockStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StockInStock:
		return StockInStock
	case StockLowStock:
		return StockLowStock
	case StockOutOfStock:
		return StockOutOfStock
	default:
		return StockAny
	}
}

// Range is an inclusive numeric interval. Either bound may be absent.
type Range struct {
	Min decimal.NullDecimal
	Max decimal.NullDecimal
}

// NewRange builds a closed range [min, max].
func NewRange(min, max decimal.Decimal) Range {
	return Range{
		Min: decimal.NewNullDecimal(min),
		Max: decimal.NewNullDecimal(max),
	}
}

// IsZero reports whether the range has no bound at all.
func (r Range) IsZero() bool {
	return !r.Min.Valid && !r.Max.Valid
}

// Normalize returns the range with its bounds swapped when min > max.
func (r Range) Normalize() Range {
	if r.Min.Valid && r.Max.Valid && r.Min.Decimal.GreaterThan(r.Max.Decimal) {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// Contains reports whether v lies within the normalized range.
func (r Range) Contains(v decimal.Decimal) bool {
	n := r.Normalize()
	if n.Min.Valid && v.LessThan(n.Min.Decimal) {
		return false
	}
	if n.Max.Valid && v.GreaterThan(n.Max.Decimal) {
		return false
	}
	return true
}

// Criteria is the full set of facet constraints for one listing query.
// The zero value matches every well-formed record.
type Criteria struct {
	Category string
	Search   string
	Price    Range
	Stock    StockStatus
	// LowStockThreshold is the exclusive upper bound used by StockLowStock.
	// Zero is a real threshold: nothing is low stock.
	LowStockThreshold int
	MinRating         float64
	Facets            map[string][]string
	Ranges            map[string]Range
}
