package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_storefront/internal/pricing"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

var errorStatus = map[error]int{
	utils.ErrInvalidCredentials: http.StatusUnauthorized,
	utils.ErrAccountInactive:    http.StatusForbidden,
	utils.ErrProductNotFound:    http.StatusNotFound,
	utils.ErrCouponNotFound:     http.StatusNotFound,
	utils.ErrOrderNotFound:      http.StatusNotFound,
	utils.ErrProductUnavailable: http.StatusConflict,
	utils.ErrDuplicateCoupon:    http.StatusConflict,
	utils.ErrDuplicateSKU:       http.StatusConflict,
	utils.ErrInvalidQuantity:    http.StatusBadRequest,
	utils.ErrInvalidCoupon:      http.StatusBadRequest,
	utils.ErrInvalidProduct:     http.StatusBadRequest,
	utils.ErrCartEmpty:          http.StatusBadRequest,
}

// respondError maps service errors onto the response envelope. Unknown
// errors are logged and reported as 500 without leaking details.
func respondError(c *gin.Context, err error) {
	for sentinel, status := range errorStatus {
		if errors.Is(err, sentinel) {
			utils.Error(c, status, sentinel.Error(), describe(err, sentinel))
			return
		}
	}
	log.Error().Err(err).Str("request_id", c.GetString(utils.CtxRequestID)).Msg("request failed")
	utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

// describe turns a wrapped sentinel ("INVALID_COUPON: code is required")
// into its human part, or a readable form of the sentinel itself.
func describe(err, sentinel error) string {
	if msg, ok := strings.CutPrefix(err.Error(), sentinel.Error()+": "); ok {
		return msg
	}
	return strings.ReplaceAll(strings.ToLower(sentinel.Error()), "_", " ")
}

// respondRejection reports a refused coupon as 422 with its reason code.
func respondRejection(c *gin.Context, rej *pricing.Rejection) {
	details := gin.H{}
	if rej.Detail != "" {
		details["detail"] = rej.Detail
	}
	if rej.Reason == pricing.ReasonMinOrderNotMet {
		details["shortfall"] = rej.Shortfall
	}
	utils.ErrorWithDetails(c, http.StatusUnprocessableEntity, string(rej.Reason), rej.Message(), details)
}
