package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Validator resolves a coupon code against the directory and checks its
// eligibility for a cart with the given subtotal.
type Validator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*Rule, error)
}

// DirectoryValidator implements Validator by looking up coupon rules from a
// Directory and checking temporal validity, usage limits, and the minimum
// order floor.
type DirectoryValidator struct {
	dir Directory
	now func() time.Time
}

// NewDirectoryValidator creates a DirectoryValidator backed by the given
// Directory.
func NewDirectoryValidator(dir Directory) *DirectoryValidator {
	return &DirectoryValidator{dir: dir, now: time.Now}
}

// Validate looks up the rule for code (case-insensitive), checks temporal
// validity, usage limits, and the minimum order subtotal, and increments the
// usage counter on success. The returned rule is the caller's to keep: it is
// a snapshot and does not change if the directory entry is later updated.
func (v *DirectoryValidator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*Rule, error) {
	rule, err := v.dir.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, ErrInvalidCoupon) {
			return nil, ErrInvalidCoupon
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	switch rule.Kind {
	case KindPercentage, KindFixed:
	default:
		return nil, ErrInvalidCoupon
	}

	now := v.now()
	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return nil, ErrCouponExpired
	}
	if rule.ValidUntil != nil && now.After(*rule.ValidUntil) {
		return nil, ErrCouponExpired
	}

	if rule.MaxUses > 0 && rule.Uses >= rule.MaxUses {
		return nil, ErrCouponUsageLimitReached
	}

	if rule.MinOrderSubtotal.IsPositive() && subtotal.LessThan(rule.MinOrderSubtotal) {
		return nil, ErrCouponIneligible
	}

	if err := v.dir.IncrementUses(ctx, rule.Code); err != nil {
		return nil, errors.Wrap(err, "increment coupon uses")
	}

	return rule, nil
}
