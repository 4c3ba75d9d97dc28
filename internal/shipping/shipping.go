// Package shipping defines the fixed set of shipping tiers and the rule
// for what a tier costs at a given cart subtotal.
package shipping

import "github.com/shopspring/decimal"

// Method identifies a shipping tier.
type Method string

const (
	// Standard is the default tier for new carts.
	Standard Method = "standard"
	// Express is 2-3 business day delivery.
	Express Method = "express"
	// Overnight is next business day delivery.
	Overnight Method = "overnight"
)

// Default is the tier selected when a cart is created or cleared.
const Default = Standard

// Tier describes a shipping option: a flat price and an optional
// free-shipping subtotal threshold.
type Tier struct {
	Method Method
	Name   string
	Price  decimal.Decimal
	// FreeAt, when non-nil, waives Price once the cart subtotal reaches it.
	FreeAt   *decimal.Decimal
	Estimate string
}

var freeAtStandard = decimal.NewFromInt(100)

var tiers = map[Method]Tier{
	Standard: {
		Method:   Standard,
		Name:     "Standard Shipping",
		Price:    decimal.NewFromInt(15),
		FreeAt:   &freeAtStandard,
		Estimate: "5-7 business days",
	},
	Express: {
		Method:   Express,
		Name:     "Express Shipping",
		Price:    decimal.RequireFromString("24.99"),
		Estimate: "2-3 business days",
	},
	Overnight: {
		Method:   Overnight,
		Name:     "Overnight Shipping",
		Price:    decimal.RequireFromString("39.99"),
		Estimate: "1 business day",
	},
}

// Valid reports whether m names a known tier.
func Valid(m Method) bool {
	_, ok := tiers[m]
	return ok
}

// Normalize maps unknown methods to the default tier.
func Normalize(m Method) Method {
	if !Valid(m) {
		return Default
	}
	return m
}

// Lookup returns the tier for m, falling back to the default tier when m
// is unknown.
func Lookup(m Method) Tier {
	if t, ok := tiers[m]; ok {
		return t
	}
	return tiers[Default]
}

// Tiers returns all tiers in a fixed display order.
func Tiers() []Tier {
	return []Tier{tiers[Standard], tiers[Express], tiers[Overnight]}
}

// Cost returns what the tier charges at the given subtotal: the flat price,
// or zero once the free-shipping threshold is met.
func Cost(t Tier, subtotal decimal.Decimal) decimal.Decimal {
	if t.FreeAt != nil && subtotal.GreaterThanOrEqual(*t.FreeAt) {
		return decimal.Zero
	}
	return t.Price
}
