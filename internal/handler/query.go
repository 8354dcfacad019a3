package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
	"github.com/GTDGit/gtd_storefront/internal/config"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// ListingParams declares which query parameters a listing accepts beyond
// the common ones.
type ListingParams struct {
	// MultiFacets are comma separated any-of selections, e.g. ?tech=Go,ROS.
	MultiFacets []string
	// RangeFacets are read from <name>Min and <name>Max.
	RangeFacets []string
	DefaultSort catalog.SortKey
}

// QueryParser turns listing query strings into engine queries.
type QueryParser struct {
	defaultPageSize int
	maxPageSize     int
}

func NewQueryParser(cfg config.CatalogConfig) QueryParser {
	return QueryParser{defaultPageSize: cfg.DefaultPageSize, maxPageSize: cfg.MaxPageSize}
}

// Parse reads category, q, minPrice, maxPrice, stock, minRating, sort, page
// and limit plus the listing specific facets. Unknown sort keys and
// malformed numbers are errors; a limit above the maximum is clamped.
func (p QueryParser) Parse(c *gin.Context, params ListingParams) (catalog.Query, error) {
	q := catalog.Query{
		Criteria: catalog.Criteria{
			Category: strings.TrimSpace(c.Query("category")),
			Search:   c.Query("q"),
			Stock:    catalog.ParseStockStatus(c.Query("stock")),
		},
	}

	var err error
	if q.Criteria.Price, err = parseRange(c, "minPrice", "maxPrice"); err != nil {
		return q, err
	}
	if raw := c.Query("minRating"); raw != "" {
		if q.Criteria.MinRating, err = strconv.ParseFloat(raw, 64); err != nil {
			return q, fmt.Errorf("minRating must be a number")
		}
	}

	def := params.DefaultSort
	if def == "" {
		def = catalog.SortByName
	}
	if q.Sort, err = catalog.ParseSortKey(c.Query("sort"), def); err != nil {
		return q, fmt.Errorf("sort must be one of name, price, rating, stock, date")
	}

	if q.Page, err = positiveInt(c.Query("page"), 1, "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = positiveInt(c.Query("limit"), p.defaultPageSize, "limit"); err != nil {
		return q, err
	}
	if q.PageSize > p.maxPageSize {
		q.PageSize = p.maxPageSize
	}

	for _, name := range params.MultiFacets {
		if values := splitList(c.QueryArray(name)); len(values) > 0 {
			if q.Criteria.Facets == nil {
				q.Criteria.Facets = map[string][]string{}
			}
			q.Criteria.Facets[name] = values
		}
	}
	for _, name := range params.RangeFacets {
		r, err := parseRange(c, name+"Min", name+"Max")
		if err != nil {
			return q, err
		}
		if !r.IsZero() {
			if q.Criteria.Ranges == nil {
				q.Criteria.Ranges = map[string]catalog.Range{}
			}
			q.Criteria.Ranges[name] = r
		}
	}
	return q, nil
}

// PageParams reads page and limit for listings that are not engine queries.
func (p QueryParser) PageParams(c *gin.Context) (int, int, error) {
	page, err := positiveInt(c.Query("page"), 1, "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err := positiveInt(c.Query("limit"), p.defaultPageSize, "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, min(limit, p.maxPageSize), nil
}

func parseRange(c *gin.Context, minKey, maxKey string) (catalog.Range, error) {
	var r catalog.Range
	if raw := strings.TrimSpace(c.Query(minKey)); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return r, fmt.Errorf("%s must be a number", minKey)
		}
		r.Min = decimal.NewNullDecimal(d)
	}
	if raw := strings.TrimSpace(c.Query(maxKey)); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return r, fmt.Errorf("%s must be a number", maxKey)
		}
		r.Max = decimal.NewNullDecimal(d)
	}
	return r, nil
}

func positiveInt(raw string, def int, name string) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return v, nil
}

// splitList flattens repeated and comma separated values.
func splitList(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func pagination[T any](p catalog.Page[T]) utils.Pagination {
	return utils.Pagination{
		Page:       p.Page,
		Limit:      p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}
