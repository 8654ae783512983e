package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/meridiancap/Fee-Letter-Backend/internal/dataset"
	"github.com/meridiancap/Fee-Letter-Backend/internal/testutil"
)

func TestDatasetHandler_Status(t *testing.T) {
	t.Run("returns 503 before any load", func(t *testing.T) {
		ds, _, _ := testutil.NewTestDatasetService(t, testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)
		handler := NewDatasetHandler(ds)

		req := httptest.NewRequest(http.MethodGet, "/api/dataset/status", nil)
		w := httptest.NewRecorder()

		handler.Status(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns snapshot stats after a load", func(t *testing.T) {
		ds, _, _ := testutil.NewTestDatasetService(t, testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)
		if _, err := ds.Reload(context.Background()); err != nil {
			t.Fatalf("Failed to load dataset: %v", err)
		}
		handler := NewDatasetHandler(ds)

		req := httptest.NewRequest(http.MethodGet, "/api/dataset/status", nil)
		w := httptest.NewRecorder()

		handler.Status(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response dataset.Stats
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Investors != 2 {
			t.Errorf("Expected 2 investors, got %d", response.Investors)
		}
		if response.Companies != 2 {
			t.Errorf("Expected 2 companies, got %d", response.Companies)
		}
		if response.FeeTerms != 3 {
			t.Errorf("Expected 3 fee terms rows, got %d", response.FeeTerms)
		}
		if len(response.Sources) != 3 {
			t.Errorf("Expected 3 source files, got %d", len(response.Sources))
		}
	})
}

func TestDatasetHandler_Reload(t *testing.T) {
	t.Run("loads and publishes a snapshot", func(t *testing.T) {
		ds, _, _ := testutil.NewTestDatasetService(t, testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)
		handler := NewDatasetHandler(ds)

		req := httptest.NewRequest(http.MethodPost, "/api/dataset/reload", nil)
		w := httptest.NewRecorder()

		handler.Reload(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response dataset.Stats
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Investors != 2 {
			t.Errorf("Expected 2 investors, got %d", response.Investors)
		}
	})

	t.Run("returns 500 when a source file is invalid", func(t *testing.T) {
		ds, _, paths := testutil.NewTestDatasetService(t, testutil.SampleInvestorsCSV, testutil.SampleCompaniesCSV, testutil.SampleFeeTermsCSV)
		handler := NewDatasetHandler(ds)

		if err := os.WriteFile(paths[0], []byte("wrong,headers\n1,2\n"), 0o644); err != nil {
			t.Fatalf("Failed to corrupt source file: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/dataset/reload", nil)
		w := httptest.NewRecorder()

		handler.Reload(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}
