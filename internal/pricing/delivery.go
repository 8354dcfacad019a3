package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDeliveryTiers is used when no tier table is configured.
const DefaultDeliveryTiers = "standard=50,express=150,overnight=300"

// DeliveryTable maps a delivery tier name to its flat charge.
type DeliveryTable map[string]decimal.Decimal

// ParseDeliveryTiers reads a "name=charge,name=charge" list.
func ParseDeliveryTiers(raw string) (DeliveryTable, error) {
	table := DeliveryTable{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid delivery tier %q: expected name=charge", part)
		}
		charge, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid charge for delivery tier %q: %w", name, err)
		}
		if charge.IsNegative() {
			return nil, fmt.Errorf("delivery tier %q has a negative charge", name)
		}
		table[name] = charge
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("delivery tier table is empty")
	}
	return table, nil
}

// Cheapest returns the lowest priced tier. Ties go to the alphabetically
// first name so the choice is stable.
func (t DeliveryTable) Cheapest() (string, decimal.Decimal) {
	names := t.Names()
	if len(names) == 0 {
		return "", decimal.Zero
	}
	best := names[0]
	for _, name := range names[1:] {
		if t[name].LessThan(t[best]) {
			best = name
		}
	}
	return best, t[best]
}

// Resolve looks up a tier by name. Unknown names fall back to the cheapest
// tier instead of failing.
func (t DeliveryTable) Resolve(tier string) (string, decimal.Decimal) {
	name := strings.ToLower(strings.TrimSpace(tier))
	if charge, ok := t[name]; ok {
		return name, charge
	}
	return t.Cheapest()
}

// Names returns the tier names in alphabetical order.
func (t DeliveryTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
