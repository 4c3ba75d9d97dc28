// Package pricing derives the full monetary breakdown of a cart. Every
// function here is pure: the breakdown is always recomputed from the line
// items, the applied coupon, and the selected shipping tier, never cached
// or updated incrementally.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/briqstore/cart-engine/internal/coupon"
	"github.com/briqstore/cart-engine/internal/shipping"
)

// DefaultTaxRate is the canonical sales tax rate (8%).
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Item is one priced cart line for breakdown purposes.
type Item struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Breakdown is the derived pricing aggregate. All monetary fields are
// rounded to 2 decimal places; ItemCount is the sum of quantities.
type Breakdown struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	TaxableAmount decimal.Decimal
	Tax           decimal.Decimal
	Shipping      decimal.Decimal
	Total         decimal.Decimal
	ItemCount     int
}

// Policy holds the pricing parameters that are not part of cart state.
type Policy struct {
	TaxRate decimal.Decimal
}

// DefaultPolicy returns a Policy with the canonical tax rate.
func DefaultPolicy() Policy {
	return Policy{TaxRate: DefaultTaxRate}
}

// Subtotal returns the sum of unit price times quantity across items.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// ItemCount returns the sum of quantities across items.
func ItemCount(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// Quote computes the full breakdown for the given line items, optional
// coupon rule, and shipping tier. Tax applies to the subtotal after
// discount, floored at zero. Shipping is the tier's flat price unless the
// tier's free-shipping threshold is met by the pre-discount subtotal.
func (p Policy) Quote(items []Item, rule *coupon.Rule, tier shipping.Tier) Breakdown {
	subtotal := Subtotal(items)
	discount := rule.Discount(subtotal)

	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(p.TaxRate)

	ship := shipping.Cost(tier, subtotal)

	total := subtotal.Sub(discount).Add(tax).Add(ship)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Breakdown{
		Subtotal:      subtotal.Round(2),
		Discount:      discount.Round(2),
		TaxableAmount: taxable.Round(2),
		Tax:           tax.Round(2),
		Shipping:      ship.Round(2),
		Total:         total.Round(2),
		ItemCount:     ItemCount(items),
	}
}
