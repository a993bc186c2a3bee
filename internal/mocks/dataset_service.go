package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/service"
)

// MockDatasetService implements service.DatasetService for testing.
type MockDatasetService struct {
	CreateDatasetAndEnqueueFitFn func(ctx context.Context, userID uuid.UUID, name string, observations []domain.Observation) (*domain.Dataset, error)
	GetDatasetFn                 func(ctx context.Context, datasetID uuid.UUID) (*domain.Dataset, error)
	GetDatasetForUserFn          func(ctx context.Context, userID, datasetID uuid.UUID) (*domain.Dataset, error)
	UpdateDatasetStatusFn        func(ctx context.Context, datasetID uuid.UUID, status domain.DatasetStatus) error
	ListDatasetsFn               func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Dataset, error)
}

var _ service.DatasetService = (*MockDatasetService)(nil)

// CreateDatasetAndEnqueueFit implements the service.DatasetService interface.
func (m *MockDatasetService) CreateDatasetAndEnqueueFit(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	observations []domain.Observation,
) (*domain.Dataset, error) {
	if m.CreateDatasetAndEnqueueFitFn != nil {
		return m.CreateDatasetAndEnqueueFitFn(ctx, userID, name, observations)
	}
	return domain.NewDataset(userID, name, observations)
}

// GetDataset implements the service.DatasetService interface.
func (m *MockDatasetService) GetDataset(ctx context.Context, datasetID uuid.UUID) (*domain.Dataset, error) {
	if m.GetDatasetFn != nil {
		return m.GetDatasetFn(ctx, datasetID)
	}
	return nil, service.ErrDatasetNotFound
}

// GetDatasetForUser implements the service.DatasetService interface.
func (m *MockDatasetService) GetDatasetForUser(
	ctx context.Context,
	userID, datasetID uuid.UUID,
) (*domain.Dataset, error) {
	if m.GetDatasetForUserFn != nil {
		return m.GetDatasetForUserFn(ctx, userID, datasetID)
	}
	return nil, service.ErrDatasetNotFound
}

// UpdateDatasetStatus implements the service.DatasetService interface.
func (m *MockDatasetService) UpdateDatasetStatus(
	ctx context.Context,
	datasetID uuid.UUID,
	status domain.DatasetStatus,
) error {
	if m.UpdateDatasetStatusFn != nil {
		return m.UpdateDatasetStatusFn(ctx, datasetID, status)
	}
	return nil
}

// ListDatasets implements the service.DatasetService interface.
func (m *MockDatasetService) ListDatasets(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Dataset, error) {
	if m.ListDatasetsFn != nil {
		return m.ListDatasetsFn(ctx, userID, limit, offset)
	}
	return []*domain.Dataset{}, nil
}
