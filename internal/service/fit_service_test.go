package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/store"
)

func testFits(t *testing.T, userID, datasetID uuid.UUID) []*domain.ModelFit {
	t.Helper()

	result := json.RawMessage(`{"events":5,"censored":2,"sample_size":7}`)
	families := []domain.FitFamily{domain.FitFamilyExponential, domain.FitFamilyLogNormal}

	fits := make([]*domain.ModelFit, 0, len(families))
	for _, family := range families {
		fit, err := domain.NewModelFit(userID, datasetID, family, result)
		require.NoError(t, err)
		fits = append(fits, fit)
	}
	return fits
}

func TestNewFitService_Validation(t *testing.T) {
	db, _ := newTestDB(t)
	fitStore := &MockFitStore{}
	datasetStore := &MockDatasetStore{}

	_, err := NewFitService(nil, datasetStore, db, slog.Default())
	assert.Error(t, err)

	_, err = NewFitService(fitStore, nil, db, slog.Default())
	assert.Error(t, err)

	_, err = NewFitService(fitStore, datasetStore, nil, slog.Default())
	assert.Error(t, err)

	svc, err := NewFitService(fitStore, datasetStore, db, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestFitService_CreateFits(t *testing.T) {
	userID := uuid.New()
	datasetID := uuid.New()

	t.Run("saves all fits in one transaction", func(t *testing.T) {
		db, dbMock := newTestDB(t)
		fitStore := &MockFitStore{}

		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		fits := testFits(t, userID, datasetID)
		for _, fit := range fits {
			fitStore.On("Create", mock.Anything, fit).Return(nil)
		}

		svc, err := NewFitService(fitStore, &MockDatasetStore{}, db, slog.Default())
		require.NoError(t, err)

		require.NoError(t, svc.CreateFits(context.Background(), fits))
		fitStore.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		db, dbMock := newTestDB(t)
		svc, err := NewFitService(&MockFitStore{}, &MockDatasetStore{}, db, slog.Default())
		require.NoError(t, err)

		require.NoError(t, svc.CreateFits(context.Background(), nil))
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("failure rolls back the batch", func(t *testing.T) {
		db, dbMock := newTestDB(t)
		fitStore := &MockFitStore{}

		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		fits := testFits(t, userID, datasetID)
		fitStore.On("Create", mock.Anything, fits[0]).Return(nil)
		fitStore.On("Create", mock.Anything, fits[1]).Return(errors.New("insert failed"))

		svc, err := NewFitService(fitStore, &MockDatasetStore{}, db, slog.Default())
		require.NoError(t, err)

		assert.Error(t, svc.CreateFits(context.Background(), fits))
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestFitService_AttachInterpretation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, _ := newTestDB(t)
		fitID := uuid.New()
		fitStore := &MockFitStore{}
		fitStore.On("UpdateInterpretation", mock.Anything, fitID, "plain words").Return(nil)

		svc, err := NewFitService(fitStore, &MockDatasetStore{}, db, slog.Default())
		require.NoError(t, err)

		assert.NoError(t, svc.AttachInterpretation(context.Background(), fitID, "plain words"))
		fitStore.AssertExpectations(t)
	})

	t.Run("missing fit", func(t *testing.T) {
		db, _ := newTestDB(t)
		fitStore := &MockFitStore{}
		fitStore.On("UpdateInterpretation", mock.Anything, mock.Anything, mock.Anything).
			Return(store.ErrFitNotFound)

		svc, err := NewFitService(fitStore, &MockDatasetStore{}, db, slog.Default())
		require.NoError(t, err)

		err = svc.AttachInterpretation(context.Background(), uuid.New(), "plain words")
		assert.ErrorIs(t, err, ErrFitNotFound)
	})
}

func TestFitService_GetFitForUser(t *testing.T) {
	userID := uuid.New()
	fits := testFits(t, userID, uuid.New())
	fit := fits[0]

	t.Run("owner can read", func(t *testing.T) {
		db, _ := newTestDB(t)
		fitStore := &MockFitStore{}
		fitStore.On("GetByID", mock.Anything, fit.ID).Return(fit, nil)

		svc, err := NewFitService(fitStore, &MockDatasetStore{}, db, slog.Default())
		require.NoError(t, err)

		got, err := svc.GetFitForUser(context.Background(), userID, fit.ID)
		require.NoError(t, err)
		assert.Equal(t, fit.ID, got.ID)
	})

	t.Run("other user sees not found", func(t *testing.T) {
		db, _ := newTestDB(t)
		fitStore := &MockFitStore{}
		fitStore.On("GetByID", mock.Anything, fit.ID).Return(fit, nil)

		svc, err := NewFitService(fitStore, &MockDatasetStore{}, db, slog.Default())
		require.NoError(t, err)

		_, err = svc.GetFitForUser(context.Background(), uuid.New(), fit.ID)
		assert.ErrorIs(t, err, ErrFitNotFound)
	})
}

func TestFitService_ListFitsForDataset(t *testing.T) {
	userID := uuid.New()
	dataset, err := domain.NewDataset(userID, "trial", testObservations())
	require.NoError(t, err)
	fits := testFits(t, userID, dataset.ID)

	t.Run("owner lists fits", func(t *testing.T) {
		db, _ := newTestDB(t)
		fitStore := &MockFitStore{}
		datasetStore := &MockDatasetStore{}
		datasetStore.On("GetByID", mock.Anything, dataset.ID).Return(dataset, nil)
		fitStore.On("FindByDataset", mock.Anything, dataset.ID).Return(fits, nil)

		svc, err := NewFitService(fitStore, datasetStore, db, slog.Default())
		require.NoError(t, err)

		got, err := svc.ListFitsForDataset(context.Background(), userID, dataset.ID)
		require.NoError(t, err)
		assert.Len(t, got, len(fits))
	})

	t.Run("other user sees dataset not found", func(t *testing.T) {
		db, _ := newTestDB(t)
		fitStore := &MockFitStore{}
		datasetStore := &MockDatasetStore{}
		datasetStore.On("GetByID", mock.Anything, dataset.ID).Return(dataset, nil)

		svc, err := NewFitService(fitStore, datasetStore, db, slog.Default())
		require.NoError(t, err)

		_, err = svc.ListFitsForDataset(context.Background(), uuid.New(), dataset.ID)
		assert.ErrorIs(t, err, ErrDatasetNotFound)
		fitStore.AssertNotCalled(t, "FindByDataset", mock.Anything, mock.Anything)
	})
}
