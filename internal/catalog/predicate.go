package catalog

import (
	"strings"
)

// Predicate decides whether a single record is part of a result set.
type Predicate func(Attributes) bool

// Compose turns criteria into one predicate. Every active constraint must
// hold (AND); values inside a multi-select facet are OR-ed.
func Compose(c Criteria) Predicate {
	var checks []Predicate

	if c.Category != "" && !strings.EqualFold(c.Category, CategoryAll) {
		category := c.Category
		checks = append(checks, func(a Attributes) bool {
			return a.Category == category
		})
	}

	if term := strings.ToLower(strings.TrimSpace(c.Search)); term != "" {
		checks = append(checks, func(a Attributes) bool {
			return strings.Contains(strings.ToLower(a.Name), term) ||
				(a.SKU != "" && strings.Contains(strings.ToLower(a.SKU), term))
		})
	}

	if !c.Price.IsZero() {
		price := c.Price.Normalize()
		checks = append(checks, func(a Attributes) bool {
			return price.Contains(a.Price)
		})
	}

	if stock := stockPredicate(c.Stock, c.LowStockThreshold); stock != nil {
		checks = append(checks, stock)
	}

	// Always on: a zero threshold still rejects negative ratings.
	minRating := c.MinRating
	checks = append(checks, func(a Attributes) bool {
		return a.Rating >= minRating
	})

	for name, selected := range c.Facets {
		if len(selected) == 0 {
			continue
		}
		checks = append(checks, facetPredicate(name, selected))
	}

	for name, r := range c.Ranges {
		if r.IsZero() {
			continue
		}
		checks = append(checks, rangePredicate(name, r.Normalize()))
	}

	return func(a Attributes) bool {
		for _, check := range checks {
			if !check(a) {
				return false
			}
		}
		return true
	}
}

func isInStock(a Attributes) bool {
	return a.InStock && a.StockQuantity > 0
}

func stockPredicate(status StockStatus, lowThreshold int) Predicate {
	switch status {
	case StockInStock:
		return isInStock
	case StockLowStock:
		return func(a Attributes) bool {
			return a.InStock && a.StockQuantity < lowThreshold
		}
	case StockOutOfStock:
		return func(a Attributes) bool {
			return !isInStock(a)
		}
	default:
		return nil
	}
}

func facetPredicate(name string, selected []string) Predicate {
	set := make(map[string]struct{}, len(selected))
	for _, v := range selected {
		set[v] = struct{}{}
	}
	return func(a Attributes) bool {
		for _, v := range a.Facets[name] {
			if _, ok := set[v]; ok {
				return true
			}
		}
		return false
	}
}

func rangePredicate(name string, r Range) Predicate {
	return func(a Attributes) bool {
		v, ok := a.Ranges[name]
		if !ok {
			return false
		}
		return r.Contains(v)
	}
}
