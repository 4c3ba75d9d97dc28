package checkout

import (
	"context"
	"sync"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory order Repository, used in tests and
// when the server runs without a database.
type MemoryRepository struct {
	mu     sync.Mutex
	orders []*Order
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create stores the order.
func (r *MemoryRepository) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders = append(r.orders, &cp)
	return nil
}

// Orders returns all stored orders in creation order.
func (r *MemoryRepository) Orders() []*Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Order, len(r.orders))
	copy(out, r.orders)
	return out
}
