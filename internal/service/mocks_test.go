package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/events"
	"github.com/lburgess/aftlab/internal/store"
)

// MockDatasetStore is a mock implementation of store.DatasetStore.
type MockDatasetStore struct {
	mock.Mock
}

func (m *MockDatasetStore) Create(ctx context.Context, dataset *domain.Dataset) error {
	args := m.Called(ctx, dataset)
	return args.Error(0)
}

func (m *MockDatasetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	args := m.Called(ctx, id)
	dataset, _ := args.Get(0).(*domain.Dataset)
	return dataset, args.Error(1)
}

func (m *MockDatasetStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.DatasetStatus,
) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDatasetStore) FindByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Dataset, error) {
	args := m.Called(ctx, userID, limit, offset)
	datasets, _ := args.Get(0).([]*domain.Dataset)
	return datasets, args.Error(1)
}

// WithTx returns the same mock so transactional calls can be asserted on it.
func (m *MockDatasetStore) WithTx(tx *sql.Tx) store.DatasetStore {
	return m
}

// MockFitStore is a mock implementation of store.FitStore.
type MockFitStore struct {
	mock.Mock
}

func (m *MockFitStore) Create(ctx context.Context, fit *domain.ModelFit) error {
	args := m.Called(ctx, fit)
	return args.Error(0)
}

func (m *MockFitStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelFit, error) {
	args := m.Called(ctx, id)
	fit, _ := args.Get(0).(*domain.ModelFit)
	return fit, args.Error(1)
}

func (m *MockFitStore) FindByDataset(
	ctx context.Context,
	datasetID uuid.UUID,
) ([]*domain.ModelFit, error) {
	args := m.Called(ctx, datasetID)
	fits, _ := args.Get(0).([]*domain.ModelFit)
	return fits, args.Error(1)
}

func (m *MockFitStore) UpdateInterpretation(
	ctx context.Context,
	id uuid.UUID,
	interpretation string,
) error {
	args := m.Called(ctx, id, interpretation)
	return args.Error(0)
}

// WithTx returns the same mock so transactional calls can be asserted on it.
func (m *MockFitStore) WithTx(tx *sql.Tx) store.FitStore {
	return m
}

// MockEventEmitter is a mock implementation of events.EventEmitter.
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventEmitter) RegisterHandler(handler events.EventHandler) {
	m.Called(handler)
}
