// Package cart implements the cart store: line items keyed by product and
// variant, a single coupon slot, a shipping tier selection, and a pricing
// snapshot recomputed on every mutation.
package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/briqstore/cart-engine/internal/catalog"
	"github.com/briqstore/cart-engine/internal/coupon"
	"github.com/briqstore/cart-engine/internal/pricing"
	"github.com/briqstore/cart-engine/internal/shipping"
)

// Cart holds one session's cart. All operations are atomic transitions:
// they mutate the state, recompute the snapshot, and persist, before
// returning. There is no separate recalculation step a caller can forget.
type Cart struct {
	mu       sync.Mutex
	items    []LineItem
	coupon   *coupon.Rule
	method   shipping.Method
	snapshot pricing.Breakdown

	policy  pricing.Policy
	coupons coupon.Validator
	store   Store
	lg      *zap.Logger
}

// New creates an empty cart with the default shipping tier. A nil store
// disables persistence; a nil logger discards persistence warnings.
func New(policy pricing.Policy, coupons coupon.Validator, store Store, lg *zap.Logger) *Cart {
	if store == nil {
		store = NopStore{}
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	c := &Cart{
		method:  shipping.Default,
		policy:  policy,
		coupons: coupons,
		store:   store,
		lg:      lg,
	}
	c.recompute()
	return c
}

// Restore rehydrates the cart from its store. Corrupt or unreadable stored
// state leaves the cart empty; it is never an error.
func (c *Cart) Restore(ctx context.Context) {
	st, err := c.store.Load(ctx)
	if err != nil {
		c.lg.Warn("cart restore failed, starting empty", zap.Error(err))
		return
	}
	st = st.normalize()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = st.Items
	c.coupon = st.Coupon
	c.method = st.ShippingMethod
	c.recompute()
}

// AddItem adds quantity units of the product in the given variant. If a
// line item with the same (product, variant) exists its quantity is
// incremented, never duplicated. Quantities below 1 are clamped to 1.
func (c *Cart) AddItem(ctx context.Context, p catalog.Product, quantity int, variant Variant) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{productID: p.ID, variantKey: variant.Key()}
	if i, ok := c.find(k); ok {
		c.items[i].Quantity += quantity
	} else {
		c.items = append(c.items, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  quantity,
			Variant:   variant.clone(),
			Image:     p.Image,
		})
	}

	c.commit(ctx)
}

// RemoveItem deletes the matching line item. Removing an absent item is a
// no-op, so removal is idempotent.
func (c *Cart) RemoveItem(ctx context.Context, productID string, variant Variant) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{productID: productID, variantKey: variant.Key()}
	i, ok := c.find(k)
	if !ok {
		return
	}
	c.items = append(c.items[:i], c.items[i+1:]...)

	c.commit(ctx)
}

// UpdateQuantity sets the line item's quantity to exactly quantity. A
// quantity of zero or less removes the item. Updating an absent item is a
// no-op.
func (c *Cart) UpdateQuantity(ctx context.Context, productID string, variant Variant, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(ctx, productID, variant)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{productID: productID, variantKey: variant.Key()}
	i, ok := c.find(k)
	if !ok {
		return
	}
	c.items[i].Quantity = quantity

	c.commit(ctx)
}

// Clear empties the cart: all line items, the applied coupon, and the
// shipping selection reset to the default tier.
func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.coupon = nil
	c.method = shipping.Default

	c.commit(ctx)
}

// ApplyCoupon validates code against the directory and, on success,
// replaces any previously applied coupon. It returns
// coupon.ErrInvalidCoupon for unknown codes and coupon.ErrCouponIneligible
// when the subtotal is below the coupon's minimum; in both cases the cart
// is unchanged.
//
// Validation may involve a network lookup, so the cart lock is not held
// across it. When two ApplyCoupon calls race, the last one to resolve
// determines the final coupon state.
func (c *Cart) ApplyCoupon(ctx context.Context, code string) error {
	if c.coupons == nil {
		return coupon.ErrInvalidCoupon
	}

	c.mu.Lock()
	subtotal := pricing.Subtotal(c.pricingItems())
	c.mu.Unlock()

	rule, err := c.coupons.Validate(ctx, code, subtotal)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = rule
	c.commit(ctx)
	return nil
}

// RemoveCoupon clears the active coupon. A no-op when none is applied.
func (c *Cart) RemoveCoupon(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.coupon == nil {
		return
	}
	c.coupon = nil

	c.commit(ctx)
}

// SetShippingMethod replaces the active shipping tier. Unknown methods are
// normalized to the default tier.
func (c *Cart) SetShippingMethod(ctx context.Context, m shipping.Method) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.method = shipping.Normalize(m)

	c.commit(ctx)
}

// Snapshot returns the derived pricing breakdown for the current state.
func (c *Cart) Snapshot() pricing.Breakdown {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Items returns a copy of the cart's line items in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]LineItem, len(c.items))
	for i, li := range c.items {
		out[i] = li.clone()
	}
	return out
}

// Coupon returns a copy of the applied coupon rule, or nil.
func (c *Cart) Coupon() *coupon.Rule {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.coupon == nil {
		return nil
	}
	out := *c.coupon
	return &out
}

// ShippingMethod returns the selected shipping tier.
func (c *Cart) ShippingMethod() shipping.Method {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Quantity returns the quantity of the matching line item, or zero.
func (c *Cart) Quantity(productID string, variant Variant) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{productID: productID, variantKey: variant.Key()}
	if i, ok := c.find(k); ok {
		return c.items[i].Quantity
	}
	return 0
}

// State returns a copy of the persistable cart state.
func (c *Cart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Cart) stateLocked() State {
	st := State{ShippingMethod: c.method}
	st.Items = make([]LineItem, len(c.items))
	for i, li := range c.items {
		st.Items[i] = li.clone()
	}
	if c.coupon != nil {
		r := *c.coupon
		st.Coupon = &r
	}
	return st
}

func (c *Cart) find(k key) (int, bool) {
	for i, li := range c.items {
		if li.key() == k {
			return i, true
		}
	}
	return 0, false
}

func (c *Cart) pricingItems() []pricing.Item {
	items := make([]pricing.Item, len(c.items))
	for i, li := range c.items {
		items[i] = pricing.Item{UnitPrice: li.UnitPrice, Quantity: li.Quantity}
	}
	return items
}

func (c *Cart) recompute() {
	c.snapshot = c.policy.Quote(c.pricingItems(), c.coupon, shipping.Lookup(c.method))
}

// commit recomputes the snapshot and persists the state. Persistence is
// best-effort: a failed save loses cross-reload continuity, nothing more.
// Must be called with the lock held.
func (c *Cart) commit(ctx context.Context) {
	c.recompute()
	if err := c.store.Save(ctx, c.stateLocked()); err != nil {
		c.lg.Warn("cart save failed", zap.Error(err))
	}
}
