// Package cartcodec encodes cart state for durable storage. The wire form
// is JSON with monetary values as strings, so decimals survive the round
// trip exactly.
package cartcodec

import (
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/briqstore/cart-engine/internal/cart"
	"github.com/briqstore/cart-engine/internal/coupon"
	"github.com/briqstore/cart-engine/internal/shipping"
)

// Encode serializes s. The output is stable for equal states.
func Encode(s cart.State) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, li := range s.Items {
					encodeItem(e, li)
				}
			})
		})
		if s.Coupon != nil {
			e.Field("coupon", func(e *jx.Encoder) {
				encodeCoupon(e, s.Coupon)
			})
		}
		e.Field("shippingMethod", func(e *jx.Encoder) {
			e.Str(string(s.ShippingMethod))
		})
	})
	return e.Bytes()
}

func encodeItem(e *jx.Encoder, li cart.LineItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("productId", func(e *jx.Encoder) { e.Str(li.ProductID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(li.Name) })
		e.Field("unitPrice", func(e *jx.Encoder) { e.Str(li.UnitPrice.String()) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(li.Quantity) })
		if len(li.Variant) > 0 {
			e.Field("variant", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					for _, k := range sortedKeys(li.Variant) {
						e.Field(k, func(e *jx.Encoder) { e.Str(li.Variant[k]) })
					}
				})
			})
		}
		if li.Image != "" {
			e.Field("image", func(e *jx.Encoder) { e.Str(li.Image) })
		}
	})
}

func encodeCoupon(e *jx.Encoder, r *coupon.Rule) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(r.Code) })
		e.Field("kind", func(e *jx.Encoder) { e.Str(string(r.Kind)) })
		e.Field("value", func(e *jx.Encoder) { e.Str(r.Value.String()) })
		if r.Description != "" {
			e.Field("description", func(e *jx.Encoder) { e.Str(r.Description) })
		}
		if r.MinOrderSubtotal.IsPositive() {
			e.Field("minOrderSubtotal", func(e *jx.Encoder) { e.Str(r.MinOrderSubtotal.String()) })
		}
		if r.MaxDiscount.IsPositive() {
			e.Field("maxDiscount", func(e *jx.Encoder) { e.Str(r.MaxDiscount.String()) })
		}
		if r.ValidFrom != nil {
			e.Field("validFrom", func(e *jx.Encoder) { e.Str(r.ValidFrom.Format(time.RFC3339Nano)) })
		}
		if r.ValidUntil != nil {
			e.Field("validUntil", func(e *jx.Encoder) { e.Str(r.ValidUntil.Format(time.RFC3339Nano)) })
		}
		if r.MaxUses > 0 {
			e.Field("maxUses", func(e *jx.Encoder) { e.Int(r.MaxUses) })
		}
		if r.Uses > 0 {
			e.Field("uses", func(e *jx.Encoder) { e.Int(r.Uses) })
		}
	})
}

// Decode parses data produced by Encode. Callers treat any error as
// "empty cart"; Decode never panics on malformed input.
func Decode(data []byte) (cart.State, error) {
	var s cart.State
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, k string) error {
		switch k {
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				li, err := decodeItem(d)
				if err != nil {
					return err
				}
				s.Items = append(s.Items, li)
				return nil
			})
		case "coupon":
			r, err := decodeCoupon(d)
			if err != nil {
				return err
			}
			s.Coupon = r
			return nil
		case "shippingMethod":
			v, err := d.Str()
			if err != nil {
				return err
			}
			s.ShippingMethod = shipping.Method(v)
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return cart.State{}, errors.Wrap(err, "decode cart state")
	}
	return s, nil
}

func decodeItem(d *jx.Decoder) (cart.LineItem, error) {
	var li cart.LineItem
	err := d.Obj(func(d *jx.Decoder, k string) error {
		var err error
		switch k {
		case "productId":
			li.ProductID, err = d.Str()
		case "name":
			li.Name, err = d.Str()
		case "unitPrice":
			li.UnitPrice, err = decodeDecimal(d)
		case "quantity":
			li.Quantity, err = d.Int()
		case "variant":
			li.Variant = cart.Variant{}
			return d.Obj(func(d *jx.Decoder, vk string) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				li.Variant[vk] = v
				return nil
			})
		case "image":
			li.Image, err = d.Str()
		default:
			return d.Skip()
		}
		return err
	})
	return li, err
}

func decodeCoupon(d *jx.Decoder) (*coupon.Rule, error) {
	var r coupon.Rule
	err := d.Obj(func(d *jx.Decoder, k string) error {
		var err error
		switch k {
		case "code":
			r.Code, err = d.Str()
		case "kind":
			var v string
			v, err = d.Str()
			r.Kind = coupon.Kind(v)
		case "value":
			r.Value, err = decodeDecimal(d)
		case "description":
			r.Description, err = d.Str()
		case "minOrderSubtotal":
			r.MinOrderSubtotal, err = decodeDecimal(d)
		case "maxDiscount":
			r.MaxDiscount, err = decodeDecimal(d)
		case "validFrom":
			r.ValidFrom, err = decodeTime(d)
		case "validUntil":
			r.ValidUntil, err = decodeTime(d)
		case "maxUses":
			r.MaxUses, err = d.Int()
		case "uses":
			r.Uses, err = d.Int()
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	v, err := d.Str()
	if err != nil {
		return decimal.Zero, err
	}
	dec, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse decimal %q", v)
	}
	return dec, nil
}

func decodeTime(d *jx.Decoder) (*time.Time, error) {
	v, err := d.Str()
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil, errors.Wrapf(err, "parse time %q", v)
	}
	return &t, nil
}

func sortedKeys(v cart.Variant) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
