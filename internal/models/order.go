package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a confirmed checkout.
type Order struct {
	ID              int             `db:"id" json:"-"`
	OrderNumber     string          `db:"order_number" json:"orderNumber"`
	SessionID       string          `db:"session_id" json:"-"`
	CustomerName    string          `db:"customer_name" json:"customerName"`
	CustomerEmail   string          `db:"customer_email" json:"customerEmail"`
	ShippingAddress string          `db:"shipping_address" json:"shippingAddress"`
	DeliveryTier    string          `db:"delivery_tier" json:"deliveryTier"`
	CouponID        *int            `db:"coupon_id" json:"-"`
	CouponCode      *string         `db:"coupon_code" json:"couponCode,omitempty"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	DeliveryCharge  decimal.Decimal `db:"delivery_charge" json:"deliveryCharge"`
	Discount        decimal.Decimal `db:"discount" json:"discount"`
	Total           decimal.Decimal `db:"total" json:"total"`
	Status          OrderStatus     `db:"status" json:"status"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem is one priced line of an order.
type OrderItem struct {
	ID        int             `db:"id" json:"-"`
	OrderID   int             `db:"order_id" json:"-"`
	ProductID int             `db:"product_id" json:"productId"`
	Name      string          `db:"name" json:"name"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Quantity  int             `db:"quantity" json:"quantity"`
	LineTotal decimal.Decimal `db:"line_total" json:"lineTotal"`
}
