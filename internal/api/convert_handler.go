package api

import (
	"net/http"

	"github.com/lburgess/aftlab/internal/api/shared"
	"github.com/lburgess/aftlab/internal/stats/lognorm"
)

// ConvertHandler handles the public lognormal parameterization endpoints.
// These are pure computations, so no authentication is required.
type ConvertHandler struct{}

// NewConvertHandler creates a new ConvertHandler.
func NewConvertHandler() *ConvertHandler {
	return &ConvertHandler{}
}

// Params handles POST /lognormal/params: natural-scale moments in,
// location/scale parameters out.
func (h *ConvertHandler) Params(w http.ResponseWriter, r *http.Request) {
	var req ParamsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	mu, sigma, err := lognorm.Params(req.Mean, req.Variance)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ParamsResponse{Mu: mu, Sigma: sigma})
}

// Moments handles POST /lognormal/moments: location/scale parameters in,
// natural-scale moments out.
func (h *ConvertHandler) Moments(w http.ResponseWriter, r *http.Request) {
	var req MomentsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	mean, variance, err := lognorm.Moments(req.Mu, req.Sigma)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MomentsResponse{Mean: mean, Variance: variance})
}
