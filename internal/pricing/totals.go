package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_storefront/internal/models"
)

// LineIssue reports a cart line left out of the subtotal.
type LineIssue struct {
	ProductID int    `json:"productId"`
	Reason    string `json:"reason"`
}

const (
	issueNonPositiveQuantity = "quantity must be a positive integer"
	issueNegativePrice       = "price must not be negative"
)

// Totals is the priced summary of an order.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryTier   string          `json:"deliveryTier"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	Rejected       []LineIssue     `json:"rejected,omitempty"`
}

// Calculator prices orders against a delivery tier table.
type Calculator struct {
	tiers DeliveryTable
}

// NewCalculator creates a Calculator for the given tiers.
func NewCalculator(tiers DeliveryTable) *Calculator {
	return &Calculator{tiers: tiers}
}

// Tiers returns the delivery table the calculator prices with.
func (c *Calculator) Tiers() DeliveryTable {
	return c.tiers
}

// Subtotal sums price x quantity over the well-formed lines. Lines with a
// non-positive quantity or a negative price are skipped and reported.
func Subtotal(lines []models.CartItem) (decimal.Decimal, []LineIssue) {
	sum := decimal.Zero
	var issues []LineIssue
	for _, line := range lines {
		switch {
		case line.Quantity <= 0:
			issues = append(issues, LineIssue{ProductID: line.ProductID, Reason: issueNonPositiveQuantity})
		case line.Price.IsNegative():
			issues = append(issues, LineIssue{ProductID: line.ProductID, Reason: issueNegativePrice})
		default:
			sum = sum.Add(LineTotal(line))
		}
	}
	return sum, issues
}

// LineTotal returns price x quantity for one line.
func LineTotal(line models.CartItem) decimal.Decimal {
	return line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// ComputeTotals prices lines with the delivery charge for tier and the given
// discount. The discount is clamped into [0, subtotal] and the total never
// drops below zero.
func (c *Calculator) ComputeTotals(lines []models.CartItem, tier string, discount decimal.Decimal) Totals {
	subtotal, issues := Subtotal(lines)
	tierName, charge := c.tiers.Resolve(tier)
	discount = clamp(discount, decimal.Zero, subtotal)

	return Totals{
		Subtotal:       subtotal,
		DeliveryTier:   tierName,
		DeliveryCharge: charge,
		Discount:       discount,
		Total:          decimal.Max(decimal.Zero, subtotal.Add(charge).Sub(discount)),
		Rejected:       issues,
	}
}

// String is used in log lines.
func (li LineIssue) String() string {
	return strconv.Itoa(li.ProductID) + ": " + li.Reason
}
