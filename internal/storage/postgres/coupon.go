package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/briqstore/cart-engine/internal/coupon"
)

var _ coupon.Directory = (*CouponRepository)(nil)

// CouponRepository implements coupon.Directory backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode looks up a coupon by its code, case-insensitively. It returns
// coupon.ErrInvalidCoupon when no matching coupon exists.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Rule, error) {
	const q = `
SELECT code, kind, value, description, min_order_subtotal, max_discount,
       valid_from, valid_until, max_uses, uses
FROM coupons
WHERE code = UPPER($1)
`
	var rule coupon.Rule
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&rule.Code,
		&rule.Kind,
		&rule.Value,
		&rule.Description,
		&rule.MinOrderSubtotal,
		&rule.MaxDiscount,
		&rule.ValidFrom,
		&rule.ValidUntil,
		&rule.MaxUses,
		&rule.Uses,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrInvalidCoupon
		}
		return nil, errors.Wrapf(err, "find coupon %q", code)
	}
	return &rule, nil
}

// IncrementUses bumps the usage counter for code.
func (r *CouponRepository) IncrementUses(ctx context.Context, code string) error {
	const q = `UPDATE coupons SET uses = uses + 1 WHERE code = UPPER($1)`
	if _, err := r.pool.Exec(ctx, q, code); err != nil {
		return errors.Wrapf(err, "increment uses for coupon %q", code)
	}
	return nil
}

// Upsert inserts or replaces a coupon rule. Used by the seed and import
// tools.
func (r *CouponRepository) Upsert(ctx context.Context, rule coupon.Rule) error {
	const q = `
INSERT INTO coupons (code, kind, value, description, min_order_subtotal,
                     max_discount, valid_from, valid_until, max_uses, uses)
VALUES (UPPER($1), $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (code) DO UPDATE
SET kind = EXCLUDED.kind,
    value = EXCLUDED.value,
    description = EXCLUDED.description,
    min_order_subtotal = EXCLUDED.min_order_subtotal,
    max_discount = EXCLUDED.max_discount,
    valid_from = EXCLUDED.valid_from,
    valid_until = EXCLUDED.valid_until,
    max_uses = EXCLUDED.max_uses
`
	_, err := r.pool.Exec(ctx, q,
		rule.Code, string(rule.Kind), rule.Value, rule.Description,
		rule.MinOrderSubtotal, rule.MaxDiscount,
		rule.ValidFrom, rule.ValidUntil, rule.MaxUses, rule.Uses,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert coupon %q", rule.Code)
	}
	return nil
}
