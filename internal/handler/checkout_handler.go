package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_storefront/internal/middleware"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// CheckoutHandler prices the session cart and turns it into an order.
type CheckoutHandler struct {
	checkout *service.CheckoutService
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Quote handles POST /v1/checkout/quote. A refused coupon does not fail the
// quote; it is reported in couponRejection with the discount left at zero.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req service.QuoteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
			return
		}
	}

	quote, err := h.checkout.Quote(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Quote calculated", quote)
}

// PlaceOrder handles POST /v1/checkout/orders
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "customerName, a valid customerEmail and shippingAddress are required")
		return
	}

	order, rejection, err := h.checkout.PlaceOrder(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if rejection != nil {
		respondRejection(c, rejection)
		return
	}
	utils.Success(c, 201, "Order placed", order)
}
