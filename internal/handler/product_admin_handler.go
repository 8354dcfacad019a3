package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// ProductAdminHandler handles product CRUD HTTP endpoints.
type ProductAdminHandler struct {
	products *service.ProductAdminService
	parser   QueryParser
}

// NewProductAdminHandler constructs a ProductAdminHandler.
func NewProductAdminHandler(products *service.ProductAdminService, parser QueryParser) *ProductAdminHandler {
	return &ProductAdminHandler{products: products, parser: parser}
}

// ListProducts handles GET /v1/admin/products. It accepts the same query
// parameters as the public listing but also returns inactive products.
func (h *ProductAdminHandler) ListProducts(c *gin.Context) {
	q, err := h.parser.Parse(c, ProductListing)
	if err != nil {
		utils.Error(c, 400, "INVALID_QUERY", err.Error())
		return
	}
	res, err := h.products.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Products retrieved", res.Items, pagination(res.Page))
}

// GetProduct handles GET /v1/admin/products/:id
func (h *ProductAdminHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product ID")
		return
	}
	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// CreateProduct handles POST /v1/admin/products
func (h *ProductAdminHandler) CreateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	product, err := h.products.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Product created", product)
}

// UpdateProduct handles PUT /v1/admin/products/:id
func (h *ProductAdminHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product ID")
		return
	}
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product updated", product)
}

// DeleteProduct handles DELETE /v1/admin/products/:id
func (h *ProductAdminHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product ID")
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product deleted", nil)
}
