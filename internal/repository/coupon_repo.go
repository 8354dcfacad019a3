package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

const couponColumns = `id, code, description, discount_type, discount_value, min_order_amount,
        max_discount, usage_limit, usage_count, is_active, valid_from, valid_until,
        created_at, updated_at`

// CouponRepository handles data access for coupons.
type CouponRepository struct {
	db *sqlx.DB
}

// NewCouponRepository creates a new CouponRepository.
func NewCouponRepository(db *sqlx.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// GetByCode looks a coupon up by its normalised code. Missing rows yield sql.ErrNoRows.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	const q = `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	var c models.Coupon
	if err := r.db.GetContext(ctx, &c, q, models.NormalizeCouponCode(code)); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID returns a coupon by id.
func (r *CouponRepository) GetByID(ctx context.Context, id int) (*models.Coupon, error) {
	const q = `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	var c models.Coupon
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all coupons, newest first.
func (r *CouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	const q = `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC, id DESC`
	coupons := []models.Coupon{}
	if err := r.db.SelectContext(ctx, &coupons, q); err != nil {
		return nil, err
	}
	return coupons, nil
}

// Create inserts a coupon. A taken code yields ErrDuplicate.
func (r *CouponRepository) Create(ctx context.Context, c *models.Coupon) error {
	const q = `INSERT INTO coupons (code, description, discount_type, discount_value,
              min_order_amount, max_discount, usage_limit, is_active, valid_from, valid_until)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING id, usage_count, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		c.Code, c.Description, c.DiscountType, c.Value,
		c.MinOrderAmount, c.MaxDiscount, c.UsageLimit, c.IsActive,
		c.ValidFrom, c.ValidUntil,
	).Scan(&c.ID, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

// Update overwrites the editable fields of a coupon. usage_count is never
// written here; only IncrementUsage moves it.
func (r *CouponRepository) Update(ctx context.Context, c *models.Coupon) error {
	const q = `UPDATE coupons
              SET code = $1, description = $2, discount_type = $3, discount_value = $4,
                  min_order_amount = $5, max_discount = $6, usage_limit = $7, is_active = $8,
                  valid_from = $9, valid_until = $10, updated_at = NOW()
              WHERE id = $11
              RETURNING usage_count, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		c.Code, c.Description, c.DiscountType, c.Value,
		c.MinOrderAmount, c.MaxDiscount, c.UsageLimit, c.IsActive,
		c.ValidFrom, c.ValidUntil, c.ID,
	).Scan(&c.UsageCount, &c.CreatedAt, &c.UpdatedAt)
	return translate(err)
}

// Delete removes a coupon. Orders keep their copy of the code.
func (r *CouponRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// IncrementUsage consumes one redemption of the coupon. The check and the
// increment are a single statement so concurrent orders can never push
// usage_count past usage_limit. It runs on q, normally the order transaction,
// and returns the new count or ErrCouponUnavailable.
func (r *CouponRepository) IncrementUsage(ctx context.Context, q sqlx.QueryerContext, id int) (int, error) {
	const stmt = `UPDATE coupons
              SET usage_count = usage_count + 1, updated_at = NOW()
              WHERE id = $1 AND is_active = true
                AND (usage_limit IS NULL OR usage_count < usage_limit)
              RETURNING usage_count`

	var count int
	if err := sqlx.GetContext(ctx, q, &count, stmt, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCouponUnavailable
		}
		return 0, err
	}
	return count, nil
}

// DeactivateExpired switches off active coupons whose window ended before
// now and returns their codes.
func (r *CouponRepository) DeactivateExpired(ctx context.Context, now time.Time) ([]string, error) {
	const q = `UPDATE coupons SET is_active = false, updated_at = NOW()
              WHERE is_active = true AND valid_until < $1
              RETURNING code`
	codes := []string{}
	if err := r.db.SelectContext(ctx, &codes, q, now); err != nil {
		return nil, err
	}
	return codes, nil
}
