package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/briqstore/cart-engine/internal/coupon"
	"github.com/briqstore/cart-engine/internal/shipping"
)

// LineItem is one product's presence in the cart. UnitPrice is snapshotted
// from the catalog at add time and is the source of truth for the rest of
// the session.
type LineItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Variant   Variant
	Image     string
}

// key identifies a line item. Items are unique by (ProductID, Variant).
type key struct {
	productID  string
	variantKey string
}

func (li LineItem) key() key {
	return key{productID: li.ProductID, variantKey: li.Variant.Key()}
}

func (li LineItem) clone() LineItem {
	li.Variant = li.Variant.clone()
	return li
}

// State is the persisted form of a cart: everything the derived snapshot is
// a function of. The applied coupon rule is stored in full so a reloaded
// cart does not need to consult the directory again.
type State struct {
	Items          []LineItem
	Coupon         *coupon.Rule
	ShippingMethod shipping.Method
}

// normalize discards impossible line items and maps unknown shipping
// methods to the default tier, so any stored state rehydrates into a
// well-formed cart.
func (s State) normalize() State {
	items := make([]LineItem, 0, len(s.Items))
	seen := make(map[key]int, len(s.Items))
	for _, li := range s.Items {
		if li.ProductID == "" || li.Quantity <= 0 {
			continue
		}
		if i, ok := seen[li.key()]; ok {
			items[i].Quantity += li.Quantity
			continue
		}
		seen[li.key()] = len(items)
		items = append(items, li)
	}
	s.Items = items
	s.ShippingMethod = shipping.Normalize(s.ShippingMethod)
	return s
}

// Store durably saves and restores cart state. Save is best-effort: the
// cart logs and swallows its errors. Load must treat corrupt or missing
// stored state as an empty State with a nil error.
type Store interface {
	Save(ctx context.Context, s State) error
	Load(ctx context.Context) (State, error)
}

// NopStore is a Store that keeps nothing. Used when a cart does not need
// to survive reloads.
type NopStore struct{}

func (NopStore) Save(context.Context, State) error { return nil }

func (NopStore) Load(context.Context) (State, error) { return State{}, nil }
