// Package checkout turns a cart into a persisted order.
package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/briqstore/cart-engine/internal/cart"
)

// ErrEmptyCart is returned when checkout is attempted on a cart with no
// line items.
var ErrEmptyCart = errors.New("cart is empty")

// PaymentDeclinedError indicates the payment processor refused the order.
type PaymentDeclinedError struct {
	OrderID string
	Reason  error
}

func (e *PaymentDeclinedError) Error() string {
	return "payment declined for order " + e.OrderID + ": " + e.Reason.Error()
}

func (e *PaymentDeclinedError) Unwrap() error { return e.Reason }

// Service finalizes carts into orders.
type Service struct {
	orders   Repository
	payments Initiator
	now      func() time.Time
}

// NewService creates a checkout Service with the required dependencies.
func NewService(orders Repository, payments Initiator) *Service {
	if payments == nil {
		payments = NopInitiator{}
	}
	return &Service{
		orders:   orders,
		payments: payments,
		now:      time.Now,
	}
}

// Checkout freezes the cart's snapshot into an order, authorizes payment,
// persists the order, and clears the cart. A declined payment or a failed
// write leaves the cart untouched so the user can retry.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart) (*Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	snap := c.Snapshot()
	lines := c.Items()

	items := make([]Item, len(lines))
	for i, li := range lines {
		items[i] = Item{
			ProductID: li.ProductID,
			Name:      li.Name,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
			Variant:   li.Variant,
		}
	}

	couponCode := ""
	if r := c.Coupon(); r != nil {
		couponCode = r.Code
	}

	o := &Order{
		ID:             uuid.New().String(),
		Items:          items,
		Subtotal:       snap.Subtotal,
		Discount:       snap.Discount,
		Tax:            snap.Tax,
		Shipping:       snap.Shipping,
		Total:          snap.Total,
		CouponCode:     couponCode,
		ShippingMethod: c.ShippingMethod(),
		CreatedAt:      s.now(),
	}

	if err := s.payments.Authorize(ctx, o.ID, o.Total); err != nil {
		return nil, &PaymentDeclinedError{OrderID: o.ID, Reason: err}
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	c.Clear(ctx)

	return o, nil
}
