package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line in a shopping cart.
type CartItem struct {
	ProductID int             `json:"productId"`
	SkuCode   string          `json:"skuCode"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Cart is the session-scoped set of line items awaiting checkout.
type Cart struct {
	SessionID string     `json:"sessionId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewCart returns an empty cart for sessionID.
func NewCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Items: []CartItem{}}
}

// Find returns the index of the line for productID, or -1.
func (c *Cart) Find(productID int) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
