package coupon

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Discount returns the discount amount r yields against the given subtotal.
// It is total over its inputs: a nil rule or an unknown kind yields zero.
// The result never exceeds the subtotal and is never negative.
func (r *Rule) Discount(subtotal decimal.Decimal) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch r.Kind {
	case KindPercentage:
		amount = subtotal.Mul(r.Value).Div(hundred)
		if r.MaxDiscount.IsPositive() {
			amount = decimal.Min(amount, r.MaxDiscount)
		}
	case KindFixed:
		amount = r.Value
	default:
		return decimal.Zero
	}

	// Discount never exceeds subtotal, preventing negative totals.
	amount = decimal.Min(amount, subtotal)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
