package cartcodec

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briqstore/cart-engine/internal/cart"
	"github.com/briqstore/cart-engine/internal/coupon"
	"github.com/briqstore/cart-engine/internal/shipping"
)

func TestRoundTrip(t *testing.T) {
	validUntil := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)

	state := cart.State{
		Items: []cart.LineItem{
			{
				ProductID: "set-75192",
				Name:      "Millennium Falcon",
				UnitPrice: decimal.RequireFromString("849.99"),
				Quantity:  2,
				Image:     "/images/sets/75192.jpg",
			},
			{
				ProductID: "brick-2x4",
				Name:      "2x4 Brick",
				UnitPrice: decimal.RequireFromString("0.35"),
				Quantity:  100,
				Variant:   cart.Variant{"color": "red", "finish": "matte"},
			},
		},
		Coupon: &coupon.Rule{
			Code:             "SAVE20",
			Kind:             coupon.KindPercentage,
			Value:            decimal.NewFromInt(20),
			Description:      "20% off orders over $50",
			MinOrderSubtotal: decimal.NewFromInt(50),
			MaxDiscount:      decimal.NewFromInt(30),
			ValidUntil:       &validUntil,
			MaxUses:          100,
			Uses:             7,
		},
		ShippingMethod: shipping.Express,
	}

	got, err := Decode(Encode(state))
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "set-75192", got.Items[0].ProductID)
	assert.Equal(t, "Millennium Falcon", got.Items[0].Name)
	assert.True(t, state.Items[0].UnitPrice.Equal(got.Items[0].UnitPrice))
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Nil(t, got.Items[0].Variant)

	assert.Equal(t, cart.Variant{"color": "red", "finish": "matte"}, got.Items[1].Variant)
	assert.True(t, state.Items[1].UnitPrice.Equal(got.Items[1].UnitPrice))

	require.NotNil(t, got.Coupon)
	assert.Equal(t, "SAVE20", got.Coupon.Code)
	assert.Equal(t, coupon.KindPercentage, got.Coupon.Kind)
	assert.True(t, state.Coupon.Value.Equal(got.Coupon.Value))
	assert.True(t, state.Coupon.MinOrderSubtotal.Equal(got.Coupon.MinOrderSubtotal))
	assert.True(t, state.Coupon.MaxDiscount.Equal(got.Coupon.MaxDiscount))
	require.NotNil(t, got.Coupon.ValidUntil)
	assert.True(t, validUntil.Equal(*got.Coupon.ValidUntil))
	assert.Equal(t, 100, got.Coupon.MaxUses)
	assert.Equal(t, 7, got.Coupon.Uses)

	assert.Equal(t, shipping.Express, got.ShippingMethod)
}

func TestRoundTrip_EmptyState(t *testing.T) {
	got, err := Decode(Encode(cart.State{ShippingMethod: shipping.Standard}))
	require.NoError(t, err)

	assert.Empty(t, got.Items)
	assert.Nil(t, got.Coupon)
	assert.Equal(t, shipping.Standard, got.ShippingMethod)
}

func TestEncode_StableForEqualStates(t *testing.T) {
	state := cart.State{
		Items: []cart.LineItem{
			{
				ProductID: "brick-2x4",
				UnitPrice: decimal.RequireFromString("0.35"),
				Quantity:  3,
				Variant:   cart.Variant{"size": "large", "color": "blue", "finish": "glossy"},
			},
		},
		ShippingMethod: shipping.Standard,
	}

	first := Encode(state)
	for range 10 {
		assert.Equal(t, first, Encode(state))
	}
}

func TestDecode_MalformedInput(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("not json at all"),
		[]byte(`{"items": "should be an array"}`),
		[]byte(`{"items": [{"unitPrice": "not-a-number"}]}`),
		[]byte(`{"coupon": {"validUntil": "not-a-time"}}`),
		[]byte(`[1, 2, 3]`),
	}

	for _, in := range inputs {
		_, err := Decode(in)
		assert.Error(t, err, "input %q should not decode", in)
	}
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	in := []byte(`{
		"schemaVersion": 3,
		"items": [{"productId": "p1", "name": "P1", "unitPrice": "9.99", "quantity": 1, "legacy": true}],
		"shippingMethod": "standard",
		"extra": {"nested": [1,2,3]}
	}`)

	got, err := Decode(in)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p1", got.Items[0].ProductID)
}
