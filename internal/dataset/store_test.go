package dataset_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/dataset"
)

// TestStore tests snapshot publication.
//
// WHY: Every request path goes through Store.Current; before the first load
// it must fail with the dedicated sentinel so handlers can answer 503, and
// after a swap readers must see the new snapshot.
func TestStore(t *testing.T) {
	t.Run("empty store returns ErrDatasetNotLoaded", func(t *testing.T) {
		store := dataset.NewStore()

		_, err := store.Current()
		if !errors.Is(err, apperrors.ErrDatasetNotLoaded) {
			t.Errorf("Expected ErrDatasetNotLoaded, got %v", err)
		}
	})

	t.Run("swap publishes the snapshot", func(t *testing.T) {
		store := dataset.NewStore()
		ds := dataset.New(nil, nil, nil, nil, time.Now().UTC())

		store.Swap(ds)

		got, err := store.Current()
		if err != nil {
			t.Fatalf("Current() returned unexpected error: %v", err)
		}
		if got != ds {
			t.Error("Expected the swapped snapshot")
		}
	})

	t.Run("second swap replaces the first", func(t *testing.T) {
		store := dataset.NewStore()
		first := dataset.New(nil, nil, nil, nil, time.Now().UTC())
		second := dataset.New(nil, nil, nil, nil, time.Now().UTC())

		store.Swap(first)
		store.Swap(second)

		got, err := store.Current()
		if err != nil {
			t.Fatalf("Current() returned unexpected error: %v", err)
		}
		if got != second {
			t.Error("Expected the latest snapshot")
		}
	})
}
