package handlers

import (
	"net/http"

	"github.com/meridiancap/Fee-Letter-Backend/internal/api/response"
	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/service"
)

// DatasetHandler handles dataset HTTP requests
type DatasetHandler struct {
	datasetService *service.DatasetService
}

// NewDatasetHandler creates a new DatasetHandler
func NewDatasetHandler(datasetService *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
	}
}

// Status handles GET requests for the current snapshot's record counts and
// source file metadata.
//
// Endpoint: GET /api/dataset/status
// Response: 200 OK with dataset.Stats
// Error: 503 Service Unavailable if no snapshot has been loaded yet
func (h *DatasetHandler) Status(w http.ResponseWriter, r *http.Request) {
	stats, err := h.datasetService.Status()
	if err != nil {
		response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrDatasetNotLoaded.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, stats)
}

// Reload handles POST requests to reload the dataset from the source files.
// On failure the previous snapshot stays current, so a bad edit to a source
// file never takes the pipeline down.
//
// Endpoint: POST /api/dataset/reload
// Response: 200 OK with the new snapshot's dataset.Stats
// Error: 500 Internal Server Error if any source file fails to load or validate
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	stats, err := h.datasetService.Reload(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToLoadDataset.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, stats)
}
