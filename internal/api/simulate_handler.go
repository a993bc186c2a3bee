package api

import (
	"net/http"

	"github.com/lburgess/aftlab/internal/api/shared"
	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/stats/simulate"
)

// SimulateHandler handles the two-arm simulation endpoint.
type SimulateHandler struct{}

// NewSimulateHandler creates a new SimulateHandler.
func NewSimulateHandler() *SimulateHandler {
	return &SimulateHandler{}
}

// Run handles POST /simulate: it draws a reproducible two-arm lognormal
// study and summarizes the observed durations.
func (h *SimulateHandler) Run(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req SimulateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := simulate.Run(simulate.Request{
		ControlMean:     req.ControlMean,
		ControlVariance: req.ControlVariance,
		Acceleration:    req.Acceleration,
		PerArm:          req.PerArm,
		Horizon:         req.Horizon,
		Seed:            req.Seed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
