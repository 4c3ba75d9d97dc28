package coupon

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_Discount(t *testing.T) {
	tests := []struct {
		name     string
		rule     *Rule
		subtotal string
		want     string
	}{
		{
			name:     "nil rule yields zero",
			rule:     nil,
			subtotal: "100",
			want:     "0",
		},
		{
			name:     "percentage of subtotal",
			rule:     &Rule{Kind: KindPercentage, Value: decimal.NewFromInt(10)},
			subtotal: "36.00",
			want:     "3.6",
		},
		{
			name: "percentage capped by max discount",
			rule: &Rule{
				Kind:        KindPercentage,
				Value:       decimal.NewFromInt(20),
				MaxDiscount: decimal.NewFromInt(30),
			},
			subtotal: "200",
			want:     "30",
		},
		{
			name: "percentage under cap is not clamped",
			rule: &Rule{
				Kind:        KindPercentage,
				Value:       decimal.NewFromInt(20),
				MaxDiscount: decimal.NewFromInt(30),
			},
			subtotal: "100",
			want:     "20",
		},
		{
			name:     "fixed amount",
			rule:     &Rule{Kind: KindFixed, Value: decimal.NewFromInt(15)},
			subtotal: "100",
			want:     "15",
		},
		{
			name:     "fixed amount clamped to subtotal",
			rule:     &Rule{Kind: KindFixed, Value: decimal.NewFromInt(50)},
			subtotal: "30",
			want:     "30",
		},
		{
			name:     "hundred percent discounts whole subtotal",
			rule:     &Rule{Kind: KindPercentage, Value: decimal.NewFromInt(100)},
			subtotal: "42.50",
			want:     "42.5",
		},
		{
			name:     "unknown kind yields zero",
			rule:     &Rule{Kind: Kind("mystery"), Value: decimal.NewFromInt(10)},
			subtotal: "100",
			want:     "0",
		},
		{
			name:     "zero subtotal yields zero",
			rule:     &Rule{Kind: KindPercentage, Value: decimal.NewFromInt(10)},
			subtotal: "0",
			want:     "0",
		},
		{
			name:     "negative value floors at zero",
			rule:     &Rule{Kind: KindFixed, Value: decimal.NewFromInt(-5)},
			subtotal: "100",
			want:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal := decimal.RequireFromString(tt.subtotal)
			want := decimal.RequireFromString(tt.want)

			got := tt.rule.Discount(subtotal)

			assert.True(t, want.Equal(got), "expected %s, got %s", want, got)
		})
	}
}

func TestMemoryDirectory_FindByCode(t *testing.T) {
	dir := NewMemoryDirectory(Rule{
		Code:  "save10",
		Kind:  KindPercentage,
		Value: decimal.NewFromInt(10),
	})

	rule, err := dir.FindByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", rule.Code)

	// Lookup is case-insensitive.
	rule, err = dir.FindByCode(context.Background(), "save10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", rule.Code)

	_, err = dir.FindByCode(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrInvalidCoupon)
}

func TestMemoryDirectory_IncrementUses(t *testing.T) {
	dir := NewMemoryDirectory(Rule{
		Code:  "SAVE10",
		Kind:  KindPercentage,
		Value: decimal.NewFromInt(10),
	})

	require.NoError(t, dir.IncrementUses(context.Background(), "save10"))
	require.NoError(t, dir.IncrementUses(context.Background(), "SAVE10"))

	rule, err := dir.FindByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 2, rule.Uses)

	// Unknown codes are a no-op.
	require.NoError(t, dir.IncrementUses(context.Background(), "NOPE"))
}

func TestMemoryDirectory_ReturnsCopies(t *testing.T) {
	dir := NewMemoryDirectory(Rule{
		Code:  "SAVE10",
		Kind:  KindPercentage,
		Value: decimal.NewFromInt(10),
	})

	first, err := dir.FindByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	first.Value = decimal.NewFromInt(99)

	second, err := dir.FindByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(second.Value))
}
