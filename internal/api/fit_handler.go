package api

import (
	"net/http"

	"github.com/lburgess/aftlab/internal/api/shared"
	"github.com/lburgess/aftlab/internal/service"
)

// FitHandler handles model-fit retrieval requests.
type FitHandler struct {
	fitService service.FitService
}

// NewFitHandler creates a new FitHandler.
func NewFitHandler(fitService service.FitService) *FitHandler {
	return &FitHandler{
		fitService: fitService,
	}
}

// Get handles GET /fits/{id}.
func (h *FitHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, fitID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	fit, err := h.fitService.GetFitForUser(r.Context(), userID, fitID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewFitResponse(fit))
}
