package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// Query parameters accepted by each public listing.
var (
	ProductListing = ListingParams{
		MultiFacets: []string{models.FacetWarranty, models.FacetDelivery},
		DefaultSort: catalog.SortByName,
	}
	ProjectListing = ListingParams{
		MultiFacets: []string{models.FacetTech},
		RangeFacets: []string{models.RangeBudget, models.RangeDuration, models.RangeTeamSize},
		DefaultSort: catalog.SortByName,
	}
	ResearchListing = ListingParams{
		MultiFacets: []string{models.FacetTags},
		RangeFacets: []string{models.RangeYear},
		DefaultSort: catalog.SortByDate,
	}
)

// ListingHandler serves one catalog listing and its facet summary.
type ListingHandler[T catalog.Item] struct {
	listing *service.ListingService[T]
	parser  QueryParser
	params  ListingParams
	label   string
}

// NewListingHandler constructs a ListingHandler. label names the records in
// response messages, e.g. "Products".
func NewListingHandler[T catalog.Item](listing *service.ListingService[T], parser QueryParser, params ListingParams, label string) *ListingHandler[T] {
	return &ListingHandler[T]{listing: listing, parser: parser, params: params, label: label}
}

// List handles GET /v1/{listing}
func (h *ListingHandler[T]) List(c *gin.Context) {
	q, err := h.parser.Parse(c, h.params)
	if err != nil {
		utils.Error(c, 400, "INVALID_QUERY", err.Error())
		return
	}

	res, err := h.listing.Query(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, h.label+" retrieved", res.Items, pagination(res.Page))
}

// Facets handles GET /v1/{listing}/facets
func (h *ListingHandler[T]) Facets(c *gin.Context) {
	summary, err := h.listing.Facets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, h.label+" facets retrieved", summary)
}
