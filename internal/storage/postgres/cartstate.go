package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/briqstore/cart-engine/internal/cart"
	"github.com/briqstore/cart-engine/internal/cartcodec"
)

// CartStateRepository persists cart state per session in a JSONB column.
type CartStateRepository struct {
	pool *pgxpool.Pool
}

// NewCartStateRepository returns a CartStateRepository that uses the given
// pool.
func NewCartStateRepository(pool *pgxpool.Pool) *CartStateRepository {
	return &CartStateRepository{pool: pool}
}

// Save upserts the state for sessionID.
func (r *CartStateRepository) Save(ctx context.Context, sessionID string, st cart.State) error {
	const q = `
INSERT INTO cart_states (session_id, state, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (session_id) DO UPDATE
SET state = EXCLUDED.state,
    updated_at = now()
`
	if _, err := r.pool.Exec(ctx, q, sessionID, cartcodec.Encode(st)); err != nil {
		return errors.Wrapf(err, "save cart state for session %q", sessionID)
	}
	return nil
}

// Load reads the state for sessionID. A missing row or an undecodable
// payload yields an empty state with a nil error.
func (r *CartStateRepository) Load(ctx context.Context, sessionID string) (cart.State, error) {
	const q = `SELECT state FROM cart_states WHERE session_id = $1`

	var data []byte
	err := r.pool.QueryRow(ctx, q, sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cart.State{}, nil
		}
		return cart.State{}, errors.Wrapf(err, "load cart state for session %q", sessionID)
	}

	st, err := cartcodec.Decode(data)
	if err != nil {
		// Corrupt stored state means an empty cart, never a fatal error.
		return cart.State{}, nil
	}
	return st, nil
}

// Delete removes the state for sessionID. Absent rows are a no-op.
func (r *CartStateRepository) Delete(ctx context.Context, sessionID string) error {
	const q = `DELETE FROM cart_states WHERE session_id = $1`
	if _, err := r.pool.Exec(ctx, q, sessionID); err != nil {
		return errors.Wrapf(err, "delete cart state for session %q", sessionID)
	}
	return nil
}

var _ cart.Store = (*SessionStore)(nil)

// SessionStore adapts CartStateRepository to the single-cart cart.Store
// contract for one session.
type SessionStore struct {
	repo      *CartStateRepository
	sessionID string
}

// ForSession binds the repository to one session's cart.
func (r *CartStateRepository) ForSession(sessionID string) *SessionStore {
	return &SessionStore{repo: r, sessionID: sessionID}
}

func (s *SessionStore) Save(ctx context.Context, st cart.State) error {
	return s.repo.Save(ctx, s.sessionID, st)
}

func (s *SessionStore) Load(ctx context.Context) (cart.State, error) {
	return s.repo.Load(ctx, s.sessionID)
}
