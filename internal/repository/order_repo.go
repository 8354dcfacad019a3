package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_storefront/internal/database"
	"github.com/GTDGit/gtd_storefront/internal/models"
)

const orderColumns = `id, order_number, session_id, customer_name, customer_email,
        shipping_address, delivery_tier, coupon_id, coupon_code, subtotal,
        delivery_charge, discount, total, status, created_at`

// OrderRepository persists confirmed orders.
type OrderRepository struct {
	db       *sqlx.DB
	coupons  *CouponRepository
	products *ProductRepository
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB, coupons *CouponRepository, products *ProductRepository) *OrderRepository {
	return &OrderRepository{db: db, coupons: coupons, products: products}
}

// Place stores the order and its items in one transaction. When the order
// carries a coupon, one redemption is consumed in the same transaction and
// the whole order is rolled back with ErrCouponUnavailable if none is left.
// Stock for every line is reserved the same way; a line that can no longer
// be served rolls the order back with ErrStockUnavailable.
func (r *OrderRepository) Place(ctx context.Context, order *models.Order) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if order.CouponID != nil {
			if _, err := r.coupons.IncrementUsage(ctx, tx, *order.CouponID); err != nil {
				return err
			}
		}

		// Rows are locked in product id order so concurrent orders cannot deadlock.
		items := slices.Clone(order.Items)
		slices.SortFunc(items, func(a, b models.OrderItem) int { return a.ProductID - b.ProductID })
		for _, item := range items {
			if err := r.products.ReserveStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		const q = `INSERT INTO orders (order_number, session_id, customer_name, customer_email,
                  shipping_address, delivery_tier, coupon_id, coupon_code, subtotal,
                  delivery_charge, discount, total, status)
                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                  RETURNING id, created_at`
		err := tx.QueryRowxContext(ctx, q,
			order.OrderNumber, order.SessionID, order.CustomerName, order.CustomerEmail,
			order.ShippingAddress, order.DeliveryTier, order.CouponID, order.CouponCode,
			order.Subtotal, order.DeliveryCharge, order.Discount, order.Total, order.Status,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", translate(err))
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if len(order.Items) == 0 {
			return nil
		}
		const itemsQ = `INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, line_total)
                  VALUES (:order_id, :product_id, :name, :unit_price, :quantity, :line_total)`
		if _, err := tx.NamedExecContext(ctx, itemsQ, order.Items); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
}

// GetByNumber returns an order with its items. Missing rows yield sql.ErrNoRows.
func (r *OrderRepository) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	var order models.Order
	if err := r.db.GetContext(ctx, &order, q, orderNumber); err != nil {
		return nil, err
	}

	const itemsQ = `SELECT id, order_id, product_id, name, unit_price, quantity, line_total
        FROM order_items WHERE order_id = $1 ORDER BY id`
	order.Items = []models.OrderItem{}
	if err := r.db.SelectContext(ctx, &order.Items, itemsQ, order.ID); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListPaged returns orders newest first along with the total count. Page begins at 1.
func (r *OrderRepository) ListPaged(ctx context.Context, page, limit int) ([]models.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM orders`); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + orderColumns + ` FROM orders
        ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	orders := []models.Order{}
	if err := r.db.SelectContext(ctx, &orders, listQuery, limit, offset); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
