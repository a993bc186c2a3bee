package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lburgess/aftlab/internal/api/shared"
	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/mocks"
	"github.com/lburgess/aftlab/internal/service"
)

func validCreateDatasetRequest() CreateDatasetRequest {
	return CreateDatasetRequest{
		Name: "pilot cohort",
		Observations: []ObservationRequest{
			{Duration: 4.2, Event: true, Arm: 0},
			{Duration: 9.8, Event: false, Arm: 1},
		},
	}
}

// authedGet issues a GET with the user ID in the context and a chi route
// parameter set, as the router and auth middleware would leave them.
func authedGet(
	t *testing.T,
	handler http.HandlerFunc,
	path string,
	userID uuid.UUID,
	params map[string]string,
) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)

	routeCtx := chi.NewRouteContext()
	for name, value := range params {
		routeCtx.URLParams.Add(name, value)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	req = req.WithContext(ctx)

	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestDatasetCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid upload", func(t *testing.T) {
		var gotName string
		datasetService := &mocks.MockDatasetService{
			CreateDatasetAndEnqueueFitFn: func(ctx context.Context, uid uuid.UUID, name string, obs []domain.Observation) (*domain.Dataset, error) {
				gotName = name
				assert.Equal(t, userID, uid)
				assert.Len(t, obs, 2)
				return domain.NewDataset(uid, name, obs)
			},
		}
		handler := NewDatasetHandler(datasetService, &mocks.MockFitService{})

		recorder := authedPostJSON(t, handler.Create, "/datasets", userID, validCreateDatasetRequest())
		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, "pilot cohort", gotName)

		var resp DatasetResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, 2, resp.Observations)
		assert.Equal(t, 1, resp.Events)
	})

	t.Run("requires auth", func(t *testing.T) {
		handler := NewDatasetHandler(&mocks.MockDatasetService{}, &mocks.MockFitService{})
		recorder := postJSON(t, handler.Create, "/datasets", validCreateDatasetRequest())
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("empty observations", func(t *testing.T) {
		handler := NewDatasetHandler(&mocks.MockDatasetService{}, &mocks.MockFitService{})
		req := validCreateDatasetRequest()
		req.Observations = nil
		recorder := authedPostJSON(t, handler.Create, "/datasets", userID, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		handler := NewDatasetHandler(&mocks.MockDatasetService{}, &mocks.MockFitService{})
		req := validCreateDatasetRequest()
		req.Observations[0].Duration = 0
		recorder := authedPostJSON(t, handler.Create, "/datasets", userID, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		handler := NewDatasetHandler(&mocks.MockDatasetService{}, &mocks.MockFitService{})
		req := validCreateDatasetRequest()
		req.Name = ""
		recorder := authedPostJSON(t, handler.Create, "/datasets", userID, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestDatasetGet(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	dataset, err := domain.NewDataset(userID, "pilot cohort", []domain.Observation{
		{Duration: 4.2, Event: true},
	})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		datasetService := &mocks.MockDatasetService{
			GetDatasetForUserFn: func(ctx context.Context, uid, id uuid.UUID) (*domain.Dataset, error) {
				assert.Equal(t, dataset.ID, id)
				return dataset, nil
			},
		}
		handler := NewDatasetHandler(datasetService, &mocks.MockFitService{})

		recorder := authedGet(t, handler.Get, "/datasets/"+dataset.ID.String(), userID,
			map[string]string{"id": dataset.ID.String()})
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp DatasetResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, dataset.ID, resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		handler := NewDatasetHandler(&mocks.MockDatasetService{}, &mocks.MockFitService{})
		id := uuid.New()
		recorder := authedGet(t, handler.Get, "/datasets/"+id.String(), userID,
			map[string]string{"id": id.String()})
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		handler := NewDatasetHandler(&mocks.MockDatasetService{}, &mocks.MockFitService{})
		recorder := authedGet(t, handler.Get, "/datasets/not-a-uuid", userID,
			map[string]string{"id": "not-a-uuid"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestDatasetListFits(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	datasetID := uuid.New()

	result := json.RawMessage(`{"events":1,"censored":0,"sample_size":1}`)
	fit, err := domain.NewModelFit(userID, datasetID, domain.FitFamilyLogNormal, result)
	require.NoError(t, err)

	t.Run("lists fits", func(t *testing.T) {
		fitService := &mocks.MockFitService{
			ListFitsForDatasetFn: func(ctx context.Context, uid, id uuid.UUID) ([]*domain.ModelFit, error) {
				return []*domain.ModelFit{fit}, nil
			},
		}
		handler := NewDatasetHandler(&mocks.MockDatasetService{}, fitService)

		recorder := authedGet(t, handler.ListFits, "/datasets/"+datasetID.String()+"/fits", userID,
			map[string]string{"id": datasetID.String()})
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp []FitResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "lognormal", resp[0].Family)
		assert.Equal(t, 1, resp[0].Result.Events)
	})

	t.Run("dataset owned by someone else", func(t *testing.T) {
		fitService := &mocks.MockFitService{
			ListFitsForDatasetFn: func(ctx context.Context, uid, id uuid.UUID) ([]*domain.ModelFit, error) {
				return nil, service.ErrDatasetNotFound
			},
		}
		handler := NewDatasetHandler(&mocks.MockDatasetService{}, fitService)

		recorder := authedGet(t, handler.ListFits, "/datasets/"+datasetID.String()+"/fits", userID,
			map[string]string{"id": datasetID.String()})
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestFitGet(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	result := json.RawMessage(`{"events":2,"censored":1,"sample_size":3}`)
	fit, err := domain.NewModelFit(userID, uuid.New(), domain.FitFamilyExponential, result)
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		fitService := &mocks.MockFitService{
			GetFitForUserFn: func(ctx context.Context, uid, id uuid.UUID) (*domain.ModelFit, error) {
				assert.Equal(t, fit.ID, id)
				return fit, nil
			},
		}
		handler := NewFitHandler(fitService)

		recorder := authedGet(t, handler.Get, "/fits/"+fit.ID.String(), userID,
			map[string]string{"id": fit.ID.String()})
		require.Equal(t, http.StatusOK, recorder.Code)

		var resp FitResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, fit.ID, resp.ID)
		assert.Equal(t, "exponential", resp.Family)
	})

	t.Run("not found", func(t *testing.T) {
		handler := NewFitHandler(&mocks.MockFitService{})
		id := uuid.New()
		recorder := authedGet(t, handler.Get, "/fits/"+id.String(), userID,
			map[string]string{"id": id.String()})
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
