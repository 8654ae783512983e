package service

import (
	"context"

	"github.com/meridiancap/Fee-Letter-Backend/internal/dataset"
)

// DatasetService owns the record snapshot lifecycle: the initial load at
// startup, operator-triggered reloads, and the scheduled change check.
type DatasetService struct {
	loader *dataset.Loader
	store  *dataset.Store
}

// NewDatasetService creates a new DatasetService with the provided loader and store.
func NewDatasetService(loader *dataset.Loader, store *dataset.Store) *DatasetService {
	return &DatasetService{
		loader: loader,
		store:  store,
	}
}

// Reload loads all three source files and publishes the snapshot. On any
// load failure nothing is published and the previous snapshot stays current.
func (s *DatasetService) Reload(ctx context.Context) (dataset.Stats, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return dataset.Stats{}, err
	}

	s.store.Swap(ds)

	return ds.Stats(), nil
}

// RefreshIfChanged reloads only when a source file changed since the current
// snapshot was loaded. Returns true when a new snapshot was published. With
// no snapshot yet it loads unconditionally.
func (s *DatasetService) RefreshIfChanged(ctx context.Context) (bool, error) {
	current, err := s.store.Current()
	if err != nil {
		if _, err := s.Reload(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	// A stat failure reports changed; the reload below then surfaces the
	// underlying problem instead of a bare stat error.
	changed, _ := s.loader.Changed(current.Sources)
	if !changed {
		return false, nil
	}

	if _, err := s.Reload(ctx); err != nil {
		return false, err
	}

	return true, nil
}

// Status returns the current snapshot summary.
func (s *DatasetService) Status() (dataset.Stats, error) {
	ds, err := s.store.Current()
	if err != nil {
		return dataset.Stats{}, err
	}

	return ds.Stats(), nil
}
