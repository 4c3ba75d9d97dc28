package shipping

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Standard, Normalize(Standard))
	assert.Equal(t, Express, Normalize(Express))
	assert.Equal(t, Overnight, Normalize(Overnight))
	assert.Equal(t, Default, Normalize(Method("teleport")))
	assert.Equal(t, Default, Normalize(Method("")))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Standard))
	assert.True(t, Valid(Express))
	assert.True(t, Valid(Overnight))
	assert.False(t, Valid(Method("pigeon")))
}

func TestLookup_UnknownFallsBackToDefault(t *testing.T) {
	tier := Lookup(Method("pigeon"))
	assert.Equal(t, Default, tier.Method)
}

func TestTiers_Order(t *testing.T) {
	tiers := Tiers()
	assert.Len(t, tiers, 3)
	assert.Equal(t, Standard, tiers[0].Method)
	assert.Equal(t, Express, tiers[1].Method)
	assert.Equal(t, Overnight, tiers[2].Method)
}

func TestCost(t *testing.T) {
	standard := Lookup(Standard)

	tests := []struct {
		name     string
		tier     Tier
		subtotal string
		want     string
	}{
		{"standard below threshold", standard, "99.99", "15"},
		{"standard at threshold", standard, "100.00", "0"},
		{"standard above threshold", standard, "250", "0"},
		{"standard empty cart", standard, "0", "15"},
		{"express ignores threshold", Lookup(Express), "500", "24.99"},
		{"overnight ignores threshold", Lookup(Overnight), "500", "39.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cost(tt.tier, decimal.RequireFromString(tt.subtotal))
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(got), "expected %s, got %s", want, got)
		})
	}
}
