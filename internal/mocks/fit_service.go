package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/service"
)

// MockFitService implements service.FitService for testing.
type MockFitService struct {
	CreateFitsFn           func(ctx context.Context, fits []*domain.ModelFit) error
	AttachInterpretationFn func(ctx context.Context, fitID uuid.UUID, interpretation string) error
	GetFitForUserFn        func(ctx context.Context, userID, fitID uuid.UUID) (*domain.ModelFit, error)
	ListFitsForDatasetFn   func(ctx context.Context, userID, datasetID uuid.UUID) ([]*domain.ModelFit, error)
}

var _ service.FitService = (*MockFitService)(nil)

// CreateFits implements the service.FitService interface.
func (m *MockFitService) CreateFits(ctx context.Context, fits []*domain.ModelFit) error {
	if m.CreateFitsFn != nil {
		return m.CreateFitsFn(ctx, fits)
	}
	return nil
}

// AttachInterpretation implements the service.FitService interface.
func (m *MockFitService) AttachInterpretation(
	ctx context.Context,
	fitID uuid.UUID,
	interpretation string,
) error {
	if m.AttachInterpretationFn != nil {
		return m.AttachInterpretationFn(ctx, fitID, interpretation)
	}
	return nil
}

// GetFitForUser implements the service.FitService interface.
func (m *MockFitService) GetFitForUser(
	ctx context.Context,
	userID, fitID uuid.UUID,
) (*domain.ModelFit, error) {
	if m.GetFitForUserFn != nil {
		return m.GetFitForUserFn(ctx, userID, fitID)
	}
	return nil, service.ErrFitNotFound
}

// ListFitsForDataset implements the service.FitService interface.
func (m *MockFitService) ListFitsForDataset(
	ctx context.Context,
	userID, datasetID uuid.UUID,
) ([]*domain.ModelFit, error) {
	if m.ListFitsForDatasetFn != nil {
		return m.ListFitsForDatasetFn(ctx, userID, datasetID)
	}
	return []*domain.ModelFit{}, nil
}
