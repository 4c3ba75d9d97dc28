// Package session maps session identifiers to carts. Carts are created
// lazily and rehydrated from their store exactly once.
package session

import (
	"context"
	"sync"

	"github.com/briqstore/cart-engine/internal/cart"
)

// Factory builds a cart bound to one session's persistence.
type Factory func(sessionID string) *cart.Cart

// Manager hands out one cart per session. The cart is constructed and
// restored on first use and cached for the life of the process; the store
// keeps it durable across restarts.
type Manager struct {
	mu      sync.Mutex
	carts   map[string]*cart.Cart
	factory Factory
}

// NewManager creates a Manager using factory for new sessions.
func NewManager(factory Factory) *Manager {
	return &Manager{
		carts:   make(map[string]*cart.Cart),
		factory: factory,
	}
}

// Get returns the session's cart, building and restoring it if this is the
// first time the session is seen by this process.
func (m *Manager) Get(ctx context.Context, sessionID string) *cart.Cart {
	m.mu.Lock()
	c, ok := m.carts[sessionID]
	m.mu.Unlock()
	if ok {
		return c
	}

	// Restore outside the lock: it may hit the database. If two requests
	// race on a fresh session, the first registered cart wins.
	fresh := m.factory(sessionID)
	fresh.Restore(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[sessionID]; ok {
		return c
	}
	m.carts[sessionID] = fresh
	return fresh
}

// Forget drops the cached cart for sessionID. The next Get rebuilds it
// from the store.
func (m *Manager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
}
