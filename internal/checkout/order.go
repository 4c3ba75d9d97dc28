package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/briqstore/cart-engine/internal/cart"
	"github.com/briqstore/cart-engine/internal/shipping"
)

// Order is a finalized cart: the line items plus the full pricing
// breakdown frozen at checkout time.
type Order struct {
	ID             string
	Items          []Item
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	Shipping       decimal.Decimal
	Total          decimal.Decimal
	CouponCode     string
	ShippingMethod shipping.Method
	CreatedAt      time.Time
}

// Item is a single order line.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Variant   cart.Variant    `json:"variant,omitempty"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
}

// Initiator hands a finalized order to the payment processor. It is a
// black box that either succeeds or fails; no payment details flow
// through this module.
type Initiator interface {
	Authorize(ctx context.Context, orderID string, amount decimal.Decimal) error
}

// NopInitiator approves every order. Used in tests and when the server
// runs without a payment processor.
type NopInitiator struct{}

func (NopInitiator) Authorize(context.Context, string, decimal.Decimal) error { return nil }
