package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind enumerates the supported coupon discount strategies.
type Kind string

const (
	// KindPercentage discounts a percentage of the cart subtotal.
	KindPercentage Kind = "percentage"
	// KindFixed discounts a fixed amount, capped at the subtotal.
	KindFixed Kind = "fixed"
)

var (
	// ErrInvalidCoupon is returned when a coupon code is not found.
	ErrInvalidCoupon = errors.New("invalid coupon code")
	// ErrCouponIneligible is returned when the cart subtotal is below the
	// coupon's minimum order requirement.
	ErrCouponIneligible = errors.New("order subtotal below coupon minimum")
	// ErrCouponExpired is returned when a coupon is outside its valid time window.
	ErrCouponExpired = errors.New("coupon expired")
	// ErrCouponUsageLimitReached is returned when a coupon has exhausted its
	// allowed uses.
	ErrCouponUsageLimitReached = errors.New("coupon usage limit reached")
)

// Rule defines a coupon's discount behaviour and eligibility constraints.
// Codes match case-insensitively; Code always holds the canonical
// upper-case form.
type Rule struct {
	Code        string
	Kind        Kind
	Value       decimal.Decimal
	Description string

	// MinOrderSubtotal is the eligibility floor checked at apply time.
	// Zero means no floor.
	MinOrderSubtotal decimal.Decimal
	// MaxDiscount caps percentage discounts. Zero means no cap.
	MaxDiscount decimal.Decimal

	ValidFrom  *time.Time
	ValidUntil *time.Time
	MaxUses    int
	Uses       int
}

// Directory provides lookup and mutation of coupon rules. FindByCode must
// return ErrInvalidCoupon when no rule exists for the code.
type Directory interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
	IncrementUses(ctx context.Context, code string) error
}
