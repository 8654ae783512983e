package dataset

import (
	"sync/atomic"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
)

// Store holds the current snapshot and swaps it atomically on reload.
// Readers take the snapshot once per request and keep using it even if a
// reload publishes a newer one mid-calculation; no partially-updated
// snapshot is ever visible.
type Store struct {
	current atomic.Pointer[Dataset]
}

// NewStore creates an empty store. Current returns ErrDatasetNotLoaded
// until the first Swap.
func NewStore() *Store {
	return &Store{}
}

// Current returns the latest published snapshot.
func (s *Store) Current() (*Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	return ds, nil
}

// Swap publishes a fully-built snapshot, replacing the previous one.
func (s *Store) Swap(ds *Dataset) {
	s.current.Store(ds)
}
