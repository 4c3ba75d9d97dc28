package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDirectory struct {
	rule          *Rule
	err           error
	incrementErr  error
	incrementCode string
	lookedUpCode  string
}

func (m *mockDirectory) FindByCode(_ context.Context, code string) (*Rule, error) {
	m.lookedUpCode = code
	return m.rule, m.err
}

func (m *mockDirectory) IncrementUses(_ context.Context, code string) error {
	m.incrementCode = code
	return m.incrementErr
}

func TestDirectoryValidator_Validate(t *testing.T) {
	fixedNow := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	pastTime := fixedNow.Add(-24 * time.Hour)
	futureTime := fixedNow.Add(24 * time.Hour)
	farFuture := fixedNow.Add(48 * time.Hour)

	tests := []struct {
		name     string
		dir      *mockDirectory
		code     string
		subtotal decimal.Decimal
		wantCode string
		wantErr  error
	}{
		{
			name: "valid percentage code",
			dir: &mockDirectory{
				rule: &Rule{
					Code:        "SAVE10",
					Kind:        KindPercentage,
					Value:       decimal.NewFromInt(10),
					Description: "10% off",
				},
			},
			code:     "SAVE10",
			subtotal: decimal.NewFromInt(100),
			wantCode: "SAVE10",
		},
		{
			name:     "unknown code returns ErrInvalidCoupon",
			dir:      &mockDirectory{err: ErrInvalidCoupon},
			code:     "BOGUS",
			subtotal: decimal.NewFromInt(50),
			wantErr:  ErrInvalidCoupon,
		},
		{
			name: "unknown kind returns ErrInvalidCoupon",
			dir: &mockDirectory{
				rule: &Rule{
					Code:  "WEIRD",
					Kind:  Kind("free_shipping"),
					Value: decimal.Zero,
				},
			},
			code:     "WEIRD",
			subtotal: decimal.NewFromInt(100),
			wantErr:  ErrInvalidCoupon,
		},
		{
			name: "subtotal below minimum returns ErrCouponIneligible",
			dir: &mockDirectory{
				rule: &Rule{
					Code:             "SAVE20",
					Kind:             KindPercentage,
					Value:            decimal.NewFromInt(20),
					MinOrderSubtotal: decimal.NewFromInt(50),
				},
			},
			code:     "SAVE20",
			subtotal: decimal.RequireFromString("49.99"),
			wantErr:  ErrCouponIneligible,
		},
		{
			name: "subtotal exactly at minimum succeeds",
			dir: &mockDirectory{
				rule: &Rule{
					Code:             "SAVE20",
					Kind:             KindPercentage,
					Value:            decimal.NewFromInt(20),
					MinOrderSubtotal: decimal.NewFromInt(50),
				},
			},
			code:     "SAVE20",
			subtotal: decimal.NewFromInt(50),
			wantCode: "SAVE20",
		},
		{
			name: "expired coupon (valid_until in past)",
			dir: &mockDirectory{
				rule: &Rule{
					Code:       "OLD",
					Kind:       KindPercentage,
					Value:      decimal.NewFromInt(10),
					ValidUntil: &pastTime,
				},
			},
			code:     "OLD",
			subtotal: decimal.NewFromInt(100),
			wantErr:  ErrCouponExpired,
		},
		{
			name: "coupon not yet valid (valid_from in future)",
			dir: &mockDirectory{
				rule: &Rule{
					Code:      "FUTURE",
					Kind:      KindPercentage,
					Value:     decimal.NewFromInt(10),
					ValidFrom: &futureTime,
				},
			},
			code:     "FUTURE",
			subtotal: decimal.NewFromInt(100),
			wantErr:  ErrCouponExpired,
		},
		{
			name: "coupon within valid window succeeds",
			dir: &mockDirectory{
				rule: &Rule{
					Code:       "WINDOW",
					Kind:       KindPercentage,
					Value:      decimal.NewFromInt(10),
					ValidFrom:  &pastTime,
					ValidUntil: &futureTime,
				},
			},
			code:     "WINDOW",
			subtotal: decimal.NewFromInt(100),
			wantCode: "WINDOW",
		},
		{
			name: "no start date with future expiry succeeds",
			dir: &mockDirectory{
				rule: &Rule{
					Code:       "NOSTART",
					Kind:       KindFixed,
					Value:      decimal.NewFromInt(5),
					ValidUntil: &farFuture,
				},
			},
			code:     "NOSTART",
			subtotal: decimal.NewFromInt(100),
			wantCode: "NOSTART",
		},
		{
			name: "usage limit reached",
			dir: &mockDirectory{
				rule: &Rule{
					Code:    "LIMITED",
					Kind:    KindPercentage,
					Value:   decimal.NewFromInt(10),
					MaxUses: 100,
					Uses:    100,
				},
			},
			code:     "LIMITED",
			subtotal: decimal.NewFromInt(100),
			wantErr:  ErrCouponUsageLimitReached,
		},
		{
			name: "usage under limit succeeds",
			dir: &mockDirectory{
				rule: &Rule{
					Code:    "HASROOM",
					Kind:    KindPercentage,
					Value:   decimal.NewFromInt(10),
					MaxUses: 100,
					Uses:    50,
				},
			},
			code:     "HASROOM",
			subtotal: decimal.NewFromInt(100),
			wantCode: "HASROOM",
		},
		{
			name: "unlimited uses (max_uses=0) always succeeds",
			dir: &mockDirectory{
				rule: &Rule{
					Code:  "UNLIMITED",
					Kind:  KindFixed,
					Value: decimal.NewFromInt(5),
					Uses:  9999,
				},
			},
			code:     "UNLIMITED",
			subtotal: decimal.NewFromInt(100),
			wantCode: "UNLIMITED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewDirectoryValidator(tt.dir)
			v.now = func() time.Time { return fixedNow }

			got, err := v.Validate(context.Background(), tt.code, tt.subtotal)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestDirectoryValidator_CodeNormalization(t *testing.T) {
	dir := &mockDirectory{
		rule: &Rule{
			Code:  "SAVE10",
			Kind:  KindPercentage,
			Value: decimal.NewFromInt(10),
		},
	}

	v := NewDirectoryValidator(dir)
	got, err := v.Validate(context.Background(), "  save10 ", decimal.NewFromInt(100))

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", dir.lookedUpCode)
	assert.Equal(t, "SAVE10", got.Code)
}

func TestDirectoryValidator_IncrementUsesCalledOnSuccess(t *testing.T) {
	dir := &mockDirectory{
		rule: &Rule{
			Code:  "INC",
			Kind:  KindFixed,
			Value: decimal.NewFromInt(5),
		},
	}

	v := NewDirectoryValidator(dir)
	_, err := v.Validate(context.Background(), "INC", decimal.NewFromInt(100))

	require.NoError(t, err)
	assert.Equal(t, "INC", dir.incrementCode)
}

func TestDirectoryValidator_IncrementUsesNotCalledOnFailure(t *testing.T) {
	dir := &mockDirectory{
		rule: &Rule{
			Code:             "MIN50",
			Kind:             KindFixed,
			Value:            decimal.NewFromInt(5),
			MinOrderSubtotal: decimal.NewFromInt(50),
		},
	}

	v := NewDirectoryValidator(dir)
	_, err := v.Validate(context.Background(), "MIN50", decimal.NewFromInt(10))

	require.ErrorIs(t, err, ErrCouponIneligible)
	assert.Empty(t, dir.incrementCode)
}

func TestDirectoryValidator_IncrementUsesError(t *testing.T) {
	dir := &mockDirectory{
		rule: &Rule{
			Code:  "FAIL",
			Kind:  KindFixed,
			Value: decimal.NewFromInt(5),
		},
		incrementErr: errors.New("db error"),
	}

	v := NewDirectoryValidator(dir)
	_, err := v.Validate(context.Background(), "FAIL", decimal.NewFromInt(100))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "increment coupon uses")
}
