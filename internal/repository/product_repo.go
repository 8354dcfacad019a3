package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

const productColumns = `id, sku_code, name, category, description, price, rating, in_stock,
        stock_quantity, warranty, delivery_tiers, is_active, created_at, updated_at`

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// All returns every active product. Filtering, sorting and paging happen in
// the catalog engine, so the order here is only a stable default.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE is_active = true ORDER BY id`
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// AllAdmin returns every product including inactive ones.
func (r *ProductRepository) AllAdmin(ctx context.Context) ([]models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products ORDER BY id`
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by id. Missing rows yield sql.ErrNoRows.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product and fills its generated fields.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	const q = `INSERT INTO products (sku_code, name, category, description, price, rating,
              in_stock, stock_quantity, warranty, delivery_tiers, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
              RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		product.SkuCode,
		product.Name,
		product.Category,
		product.Description,
		product.Price,
		product.Rating,
		product.InStock,
		product.StockQuantity,
		product.Warranty,
		product.DeliveryTiers,
		product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	return translate(err)
}

// Update overwrites an existing product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	const q = `UPDATE products
              SET sku_code = $1, name = $2, category = $3, description = $4, price = $5,
                  rating = $6, in_stock = $7, stock_quantity = $8, warranty = $9,
                  delivery_tiers = $10, is_active = $11, updated_at = NOW()
              WHERE id = $12
              RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, q,
		product.SkuCode,
		product.Name,
		product.Category,
		product.Description,
		product.Price,
		product.Rating,
		product.InStock,
		product.StockQuantity,
		product.Warranty,
		product.DeliveryTiers,
		product.IsActive,
		product.ID,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	return translate(err)
}

// Delete removes a product.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// ReserveStock takes qty units of a product inside the order transaction.
// The availability check and the decrement are one statement, so two orders
// can never oversell the last units. in_stock drops to false when the
// quantity reaches zero.
func (r *ProductRepository) ReserveStock(ctx context.Context, q sqlx.ExecerContext, id, qty int) error {
	const stmt = `UPDATE products
              SET stock_quantity = stock_quantity - $2,
                  in_stock = stock_quantity - $2 > 0,
                  updated_at = NOW()
              WHERE id = $1 AND is_active = true AND in_stock = true AND stock_quantity >= $2`

	res, err := q.ExecContext(ctx, stmt, id, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStockUnavailable
	}
	return nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
