package api

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/lburgess/aftlab/internal/api/shared"
	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/service"
)

// Default and maximum page sizes for dataset listings.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DatasetHandler handles dataset upload and retrieval requests.
type DatasetHandler struct {
	datasetService service.DatasetService
	fitService     service.FitService
	validator      *validator.Validate
}

// NewDatasetHandler creates a new DatasetHandler with the given dependencies.
func NewDatasetHandler(
	datasetService service.DatasetService,
	fitService service.FitService,
) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
		fitService:     fitService,
		validator:      validator.New(),
	}
}

// Create handles POST /datasets: it stores the uploaded observations and
// enqueues background fitting of all model families.
func (h *DatasetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateDatasetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	observations := make([]domain.Observation, 0, len(req.Observations))
	for _, obs := range req.Observations {
		observations = append(observations, domain.Observation{
			Duration:   obs.Duration,
			Event:      obs.Event,
			Arm:        obs.Arm,
			Covariates: obs.Covariates,
		})
	}

	dataset, err := h.datasetService.CreateDatasetAndEnqueueFit(r.Context(), userID, req.Name, observations)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create dataset")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewDatasetResponse(dataset))
}

// Get handles GET /datasets/{id}.
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, datasetID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	dataset, err := h.datasetService.GetDatasetForUser(r.Context(), userID, datasetID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewDatasetResponse(dataset))
}

// List handles GET /datasets with optional limit/offset query parameters.
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	datasets, err := h.datasetService.ListDatasets(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list datasets")
		return
	}

	responses := make([]DatasetResponse, 0, len(datasets))
	for _, dataset := range datasets {
		responses = append(responses, NewDatasetResponse(dataset))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// ListFits handles GET /datasets/{id}/fits.
func (h *DatasetHandler) ListFits(w http.ResponseWriter, r *http.Request) {
	userID, datasetID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	fits, err := h.fitService.ListFitsForDataset(r.Context(), userID, datasetID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]FitResponse, 0, len(fits))
	for _, fit := range fits {
		responses = append(responses, NewFitResponse(fit))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
