package service_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/testutil"
)

// TestDatasetService_Reload tests loading and publishing snapshots.
//
// WHY: Reload is all-or-nothing: a good load must publish atomically and a
// bad load must leave the previous snapshot untouched, or in-flight
// calculations would see half-updated records.
func TestDatasetService_Reload(t *testing.T) {
	ctx := context.Background()

	t.Run("loads and publishes snapshot", func(t *testing.T) {
		// Setup
		svc, store, _ := testutil.NewTestDatasetService(t,
			testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)

		// Execute
		stats, err := svc.Reload(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Reload() returned unexpected error: %v", err)
		}

		if stats.Investors != 2 || stats.Companies != 2 || stats.FeeTerms != 3 {
			t.Errorf("Expected 2/2/3 records, got %d/%d/%d", stats.Investors, stats.Companies, stats.FeeTerms)
		}

		ds, err := store.Current()
		if err != nil {
			t.Fatalf("Current() returned unexpected error: %v", err)
		}
		if _, ok := ds.InvestorByClientRef("AB123"); !ok {
			t.Error("Expected published snapshot to contain AB123")
		}
	})

	t.Run("keeps previous snapshot when reload fails", func(t *testing.T) {
		// Setup
		svc, store, paths := testutil.NewTestDatasetService(t,
			testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)

		if _, err := svc.Reload(ctx); err != nil {
			t.Fatalf("Reload() returned unexpected error: %v", err)
		}
		before, err := store.Current()
		if err != nil {
			t.Fatalf("Current() returned unexpected error: %v", err)
		}

		// Corrupt the investors file
		if err := os.WriteFile(paths[0], []byte("wrong,headers\n1,2\n"), 0o644); err != nil {
			t.Fatalf("Failed to corrupt investors file: %v", err)
		}

		// Execute
		_, reloadErr := svc.Reload(ctx)

		// Assert
		if !errors.Is(reloadErr, apperrors.ErrFailedToLoadDataset) {
			t.Errorf("Expected ErrFailedToLoadDataset, got %v", reloadErr)
		}

		after, err := store.Current()
		if err != nil {
			t.Fatalf("Current() returned unexpected error: %v", err)
		}
		if after != before {
			t.Error("Expected previous snapshot to stay published after failed reload")
		}
	})
}

// TestDatasetService_RefreshIfChanged tests the scheduled change check.
//
// WHY: The refresh job runs on a timer; it must reload only when a source
// file actually changed, and must bootstrap the first snapshot when none is
// published yet.
func TestDatasetService_RefreshIfChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("loads unconditionally when no snapshot is published", func(t *testing.T) {
		// Setup
		svc, store, _ := testutil.NewTestDatasetService(t,
			testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)

		// Execute
		refreshed, err := svc.RefreshIfChanged(ctx)

		// Assert
		if err != nil {
			t.Fatalf("RefreshIfChanged() returned unexpected error: %v", err)
		}
		if !refreshed {
			t.Error("Expected initial refresh to publish a snapshot")
		}
		if _, err := store.Current(); err != nil {
			t.Errorf("Expected snapshot after refresh, got %v", err)
		}
	})

	t.Run("skips reload when files are unchanged", func(t *testing.T) {
		// Setup
		svc, store, _ := testutil.NewTestDatasetService(t,
			testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)

		if _, err := svc.Reload(ctx); err != nil {
			t.Fatalf("Reload() returned unexpected error: %v", err)
		}
		before, _ := store.Current()

		// Execute
		refreshed, err := svc.RefreshIfChanged(ctx)

		// Assert
		if err != nil {
			t.Fatalf("RefreshIfChanged() returned unexpected error: %v", err)
		}
		if refreshed {
			t.Error("Expected no refresh for unchanged files")
		}

		after, _ := store.Current()
		if after != before {
			t.Error("Expected snapshot to stay identical")
		}
	})

	t.Run("reloads when a source file changes", func(t *testing.T) {
		// Setup
		svc, store, paths := testutil.NewTestDatasetService(t,
			testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)

		if _, err := svc.Reload(ctx); err != nil {
			t.Fatalf("Reload() returned unexpected error: %v", err)
		}
		before, _ := store.Current()

		// Touch the companies file into the future
		future := time.Now().Add(time.Hour)
		if err := os.Chtimes(paths[1], future, future); err != nil {
			t.Fatalf("Failed to touch companies file: %v", err)
		}

		// Execute
		refreshed, err := svc.RefreshIfChanged(ctx)

		// Assert
		if err != nil {
			t.Fatalf("RefreshIfChanged() returned unexpected error: %v", err)
		}
		if !refreshed {
			t.Error("Expected refresh after file change")
		}

		after, _ := store.Current()
		if after == before {
			t.Error("Expected a new snapshot to be published")
		}
	})
}

// TestDatasetService_Status tests the status summary.
//
// WHY: Operators read this endpoint to confirm which snapshot is live; it
// must fail loudly before the first load rather than report zeros.
func TestDatasetService_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ErrDatasetNotLoaded before first load", func(t *testing.T) {
		// Setup
		svc, _, _ := testutil.NewTestDatasetService(t,
			testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)

		// Execute
		_, err := svc.Status()

		// Assert
		if !errors.Is(err, apperrors.ErrDatasetNotLoaded) {
			t.Errorf("Expected ErrDatasetNotLoaded, got %v", err)
		}
	})

	t.Run("reports counts and sources after load", func(t *testing.T) {
		// Setup
		svc, _, paths := testutil.NewTestDatasetService(t,
			testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)

		if _, err := svc.Reload(ctx); err != nil {
			t.Fatalf("Reload() returned unexpected error: %v", err)
		}

		// Execute
		stats, err := svc.Status()

		// Assert
		if err != nil {
			t.Fatalf("Status() returned unexpected error: %v", err)
		}

		if stats.Investors != 2 {
			t.Errorf("Expected 2 investors, got %d", stats.Investors)
		}
		if len(stats.Sources) != 3 {
			t.Fatalf("Expected 3 sources, got %d", len(stats.Sources))
		}
		if stats.Sources[0].Path != paths[0] {
			t.Errorf("Expected first source %s, got %s", paths[0], stats.Sources[0].Path)
		}
		if stats.LoadedAt.IsZero() {
			t.Error("Expected LoadedAt to be set")
		}
	})
}
