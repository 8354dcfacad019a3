package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// OrderHandler serves the admin order views.
type OrderHandler struct {
	orders *service.OrderService
	parser QueryParser
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders *service.OrderService, parser QueryParser) *OrderHandler {
	return &OrderHandler{orders: orders, parser: parser}
}

// ListOrders handles GET /v1/admin/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit, err := h.parser.PageParams(c)
	if err != nil {
		utils.Error(c, 400, "INVALID_QUERY", err.Error())
		return
	}

	orders, total, err := h.orders.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Orders retrieved", orders, utils.Pagination{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: catalog.TotalPages(total, limit),
	})
}

// GetOrder handles GET /v1/admin/orders/:orderNumber
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Order retrieved", order)
}
