package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrCouponUnavailable is returned when the conditional usage increment
// matches no row: the coupon hit its limit or was deactivated concurrently.
var ErrCouponUnavailable = errors.New("coupon no longer redeemable")

// ErrStockUnavailable is returned when a product no longer has the ordered
// quantity, or was deactivated, by the time the order commits.
var ErrStockUnavailable = errors.New("insufficient stock")

// ErrDuplicate reports a unique constraint violation.
var ErrDuplicate = errors.New("duplicate record")

const pqUniqueViolation = "23505"

// translate maps driver errors onto repository sentinels.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrDuplicate
	}
	return err
}
