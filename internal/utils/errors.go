package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrProductUnavailable = errors.New("PRODUCT_UNAVAILABLE")
	ErrInvalidQuantity    = errors.New("INVALID_QUANTITY")
	ErrCartEmpty          = errors.New("CART_EMPTY")
	ErrCouponNotFound     = errors.New("COUPON_NOT_FOUND")
	ErrDuplicateCoupon    = errors.New("DUPLICATE_COUPON_CODE")
	ErrDuplicateSKU       = errors.New("DUPLICATE_SKU_CODE")
	ErrInvalidCoupon      = errors.New("INVALID_COUPON")
	ErrInvalidProduct     = errors.New("INVALID_PRODUCT")
	ErrOrderNotFound      = errors.New("ORDER_NOT_FOUND")
)
