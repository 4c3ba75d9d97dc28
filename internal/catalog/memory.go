package catalog

import (
	"context"
	"sort"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory Repository, used in tests and when the
// server runs without a database.
type MemoryRepository struct {
	products map[string]Product
}

// NewMemoryRepository creates a MemoryRepository holding the given products.
func NewMemoryRepository(products ...Product) *MemoryRepository {
	r := &MemoryRepository{products: make(map[string]Product, len(products))}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

// List returns all products ordered by ID.
func (r *MemoryRepository) List(_ context.Context) ([]Product, error) {
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetByID returns the product with the given ID or ErrNotFound.
func (r *MemoryRepository) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}
