package catalog

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// SortKey names the attribute a listing is ordered by.
type SortKey string

const (
	SortByName   SortKey = "name"
	SortByPrice  SortKey = "price"
	SortByRating SortKey = "rating"
	SortByStock  SortKey = "stock"
	SortByDate   SortKey = "date"
)

// ErrInvalidSortKey is returned by ParseSortKey for unknown keys.
var ErrInvalidSortKey = errors.New("invalid sort key")

// ParseSortKey validates a caller supplied key. An empty value falls back
// to def.
func ParseSortKey(raw string, def SortKey) (SortKey, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return def, nil
	}
	key := SortKey(raw)
	if _, ok := comparators[key]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, raw)
	}
	return key, nil
}

type comparator func(a, b Attributes) int

var comparators = map[SortKey]comparator{
	SortByName: func(a, b Attributes) int {
		return strings.Compare(a.Name, b.Name)
	},
	SortByPrice: func(a, b Attributes) int {
		return a.Price.Cmp(b.Price)
	},
	SortByRating: func(a, b Attributes) int {
		return cmp.Compare(b.Rating, a.Rating)
	},
	SortByStock: func(a, b Attributes) int {
		return cmp.Compare(b.StockQuantity, a.StockQuantity)
	},
	// Newest first; a zero timestamp counts as the oldest possible value.
	SortByDate: func(a, b Attributes) int {
		switch {
		case a.CreatedAt.IsZero() && b.CreatedAt.IsZero():
			return 0
		case a.CreatedAt.IsZero():
			return 1
		case b.CreatedAt.IsZero():
			return -1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	},
}

// Sort returns a stably ordered copy of items. Equal records keep their
// input order. Sort panics on a key that ParseSortKey would reject.
func Sort[T Item](items []T, key SortKey) []T {
	compare, ok := comparators[key]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown sort key %q", key))
	}

	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return compare(a.Attributes(), b.Attributes())
	})
	return out
}
