// Package file persists cart state to a single file on disk, the durable
// local storage used when the server runs without a database.
package file

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/briqstore/cart-engine/internal/cart"
	"github.com/briqstore/cart-engine/internal/cartcodec"
)

var _ cart.Store = (*Store)(nil)

// Store reads and writes one cart's state at a fixed path. Writes go
// through a temp file and rename so a crash never leaves a half-written
// state behind.
type Store struct {
	path string
}

// NewStore creates a Store persisting to path. The parent directory is
// created on the first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the state to disk.
func (s *Store) Save(_ context.Context, st cart.State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create state dir")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(cartcodec.Encode(st)); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write state")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replace state file")
	}
	return nil
}

// Load reads the stored state. A missing or corrupt file yields an empty
// state with a nil error: a cart that cannot be restored starts empty.
func (s *Store) Load(_ context.Context) (cart.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return cart.State{}, nil
	}
	st, err := cartcodec.Decode(data)
	if err != nil {
		return cart.State{}, nil
	}
	return st, nil
}
