package coupon

import (
	"context"
	"strings"
	"sync"
)

var _ Directory = (*MemoryDirectory)(nil)

// MemoryDirectory is an in-memory Directory, used in tests and when the
// server runs without a database.
type MemoryDirectory struct {
	mu    sync.RWMutex
	rules map[string]*Rule
}

// NewMemoryDirectory creates a MemoryDirectory holding the given rules.
func NewMemoryDirectory(rules ...Rule) *MemoryDirectory {
	d := &MemoryDirectory{rules: make(map[string]*Rule, len(rules))}
	for i := range rules {
		r := rules[i]
		r.Code = strings.ToUpper(r.Code)
		d.rules[r.Code] = &r
	}
	return d
}

// FindByCode returns a copy of the rule for code, or ErrInvalidCoupon.
func (d *MemoryDirectory) FindByCode(_ context.Context, code string) (*Rule, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.rules[strings.ToUpper(code)]
	if !ok {
		return nil, ErrInvalidCoupon
	}
	out := *r
	return &out, nil
}

// IncrementUses bumps the usage counter for code. Unknown codes are a no-op.
func (d *MemoryDirectory) IncrementUses(_ context.Context, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if r, ok := d.rules[strings.ToUpper(code)]; ok {
		r.Uses++
	}
	return nil
}
