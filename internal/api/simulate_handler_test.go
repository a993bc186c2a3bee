package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lburgess/aftlab/internal/api/shared"
	"github.com/lburgess/aftlab/internal/stats/simulate"
)

// authedPostJSON issues a POST with the user ID already in the context, as
// the auth middleware would leave it.
func authedPostJSON(
	t *testing.T,
	handler http.HandlerFunc,
	path string,
	userID uuid.UUID,
	payload any,
) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func validSimulateRequest() SimulateRequest {
	return SimulateRequest{
		ControlMean:     12.0,
		ControlVariance: 30.0,
		Acceleration:    1.5,
		PerArm:          50,
		Horizon:         40.0,
		Seed:            7,
	}
}

func TestSimulate(t *testing.T) {
	t.Parallel()

	handler := NewSimulateHandler()
	userID := uuid.New()

	t.Run("requires auth", func(t *testing.T) {
		recorder := postJSON(t, handler.Run, "/simulate", validSimulateRequest())
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("valid request", func(t *testing.T) {
		recorder := authedPostJSON(t, handler.Run, "/simulate", userID, validSimulateRequest())
		require.Equal(t, http.StatusOK, recorder.Code)

		var result simulate.Result
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
		assert.Equal(t, 50, result.Control.N)
		assert.Equal(t, 50, result.Treatment.N)
		assert.Greater(t, result.Sigma, 0.0)
	})

	t.Run("same seed reproduces draws", func(t *testing.T) {
		first := authedPostJSON(t, handler.Run, "/simulate", userID, validSimulateRequest())
		second := authedPostJSON(t, handler.Run, "/simulate", userID, validSimulateRequest())
		require.Equal(t, http.StatusOK, first.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
	})

	t.Run("per-arm too small", func(t *testing.T) {
		req := validSimulateRequest()
		req.PerArm = 1
		recorder := authedPostJSON(t, handler.Run, "/simulate", userID, req)
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("per-arm above the cap", func(t *testing.T) {
		req := validSimulateRequest()
		req.PerArm = simulate.MaxPerArm + 1
		recorder := authedPostJSON(t, handler.Run, "/simulate", userID, req)
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("non-positive acceleration", func(t *testing.T) {
		req := validSimulateRequest()
		req.Acceleration = 0
		recorder := authedPostJSON(t, handler.Run, "/simulate", userID, req)
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("invalid control moments", func(t *testing.T) {
		req := validSimulateRequest()
		req.ControlMean = -4
		recorder := authedPostJSON(t, handler.Run, "/simulate", userID, req)
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}
