package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/middleware"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/pricing"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// CartHandler handles the session cart endpoints.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartResponse struct {
	*models.Cart
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func newCartResponse(cart *models.Cart) cartResponse {
	subtotal, _ := pricing.Subtotal(cart.Items)
	count := 0
	for _, item := range cart.Items {
		count += item.Quantity
	}
	return cartResponse{Cart: cart, ItemCount: count, Subtotal: subtotal}
}

type addItemRequest struct {
	ProductID int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Cart retrieved", newCartResponse(cart))
}

// AddItem handles POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "productId is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.AddItem(c.Request.Context(), middleware.GetSessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Item added to cart", newCartResponse(cart))
}

// UpdateItem handles PUT /v1/cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product ID")
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "quantity is required")
		return
	}

	cart, err := h.carts.UpdateItem(c.Request.Context(), middleware.GetSessionID(c), productID, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", newCartResponse(cart))
}

// RemoveItem handles DELETE /v1/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product ID")
		return
	}

	cart, err := h.carts.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Item removed from cart", newCartResponse(cart))
}

// ClearCart handles DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if err := h.carts.Clear(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Cart cleared", newCartResponse(models.NewCart(sessionID)))
}
