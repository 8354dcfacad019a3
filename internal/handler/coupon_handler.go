package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/catalog"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// CouponHandler handles coupon validation and the admin coupon endpoints.
type CouponHandler struct {
	coupons *service.CouponService
	parser  QueryParser
}

// NewCouponHandler constructs a CouponHandler.
func NewCouponHandler(coupons *service.CouponService, parser QueryParser) *CouponHandler {
	return &CouponHandler{coupons: coupons, parser: parser}
}

type validateCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type couponValidation struct {
	Code         string              `json:"code"`
	DiscountType models.DiscountType `json:"discountType"`
	Discount     decimal.Decimal     `json:"discount"`
	Description  string              `json:"description,omitempty"`
}

// Validate handles POST /v1/coupons/validate. An accepted coupon answers
// 200 with the discount; a refused one answers 422 with the reason code.
func (h *CouponHandler) Validate(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "code and subtotal are required")
		return
	}
	if req.Subtotal.IsNegative() {
		utils.Error(c, 400, "INVALID_REQUEST", "subtotal must not be negative")
		return
	}

	ev, err := h.coupons.Validate(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ev.OK() {
		respondRejection(c, ev.Rejection)
		return
	}
	utils.Success(c, 200, "Coupon is valid", couponValidation{
		Code:         ev.Coupon.Code,
		DiscountType: ev.Coupon.DiscountType,
		Discount:     ev.Discount,
		Description:  ev.Coupon.Description,
	})
}

// ListCoupons handles GET /v1/admin/coupons
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	page, limit, err := h.parser.PageParams(c)
	if err != nil {
		utils.Error(c, 400, "INVALID_QUERY", err.Error())
		return
	}

	coupons, err := h.coupons.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	p := catalog.Paginate(coupons, page, limit)
	utils.SuccessWithPagination(c, 200, "Coupons retrieved", p.Items, pagination(p))
}

// GetCoupon handles GET /v1/admin/coupons/:id
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid coupon ID")
		return
	}
	coupon, err := h.coupons.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Coupon retrieved", coupon)
}

// CreateCoupon handles POST /v1/admin/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req service.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	coupon, err := h.coupons.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Coupon created", coupon)
}

// UpdateCoupon handles PUT /v1/admin/coupons/:id
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid coupon ID")
		return
	}
	var req service.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	coupon, err := h.coupons.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Coupon updated", coupon)
}

// DeleteCoupon handles DELETE /v1/admin/coupons/:id
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid coupon ID")
		return
	}
	if err := h.coupons.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Coupon deleted", nil)
}
