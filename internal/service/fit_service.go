package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/store"
)

// FitService provides model-fit operations.
type FitService interface {
	// CreateFits persists a batch of model fits atomically. Either all
	// fits are saved or none are.
	CreateFits(ctx context.Context, fits []*domain.ModelFit) error

	// AttachInterpretation stores a plain-language interpretation on an
	// existing fit.
	AttachInterpretation(ctx context.Context, fitID uuid.UUID, interpretation string) error

	// GetFitForUser retrieves a fit owned by the given user. Returns
	// ErrFitNotFound when the fit does not exist or is owned by someone
	// else.
	GetFitForUser(ctx context.Context, userID, fitID uuid.UUID) (*domain.ModelFit, error)

	// ListFitsForDataset retrieves all fits for a dataset the user owns,
	// newest first.
	ListFitsForDataset(ctx context.Context, userID, datasetID uuid.UUID) ([]*domain.ModelFit, error)
}

// fitServiceImpl implements the FitService interface.
type fitServiceImpl struct {
	fitStore     store.FitStore
	datasetStore store.DatasetStore
	db           *sql.DB
	logger       *slog.Logger
}

// NewFitService creates a new FitService.
// It returns an error if any of the required dependencies are nil.
func NewFitService(
	fitStore store.FitStore,
	datasetStore store.DatasetStore,
	db *sql.DB,
	logger *slog.Logger,
) (FitService, error) {
	if fitStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "fitStore cannot be nil"}
	}
	if datasetStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "datasetStore cannot be nil"}
	}
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &fitServiceImpl{
		fitStore:     fitStore,
		datasetStore: datasetStore,
		db:           db,
		logger:       logger.With("component", "fit_service"),
	}, nil
}

// CreateFits persists a batch of fits in a single transaction.
func (s *fitServiceImpl) CreateFits(ctx context.Context, fits []*domain.ModelFit) error {
	if len(fits) == 0 {
		return nil
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.fitStore.WithTx(tx)

		for _, fit := range fits {
			if err := txStore.Create(ctx, fit); err != nil {
				s.logger.Error("failed to create fit in transaction",
					"error", err,
					"fit_id", fit.ID,
					"dataset_id", fit.DatasetID,
					"family", fit.Family)
				return NewServiceError("create_fits", "failed to save fit", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("model fits created",
		"count", len(fits),
		"dataset_id", fits[0].DatasetID)
	return nil
}

// AttachInterpretation stores an interpretation on an existing fit.
func (s *fitServiceImpl) AttachInterpretation(
	ctx context.Context,
	fitID uuid.UUID,
	interpretation string,
) error {
	if err := s.fitStore.UpdateInterpretation(ctx, fitID, interpretation); err != nil {
		s.logger.Error("failed to attach interpretation",
			"error", err,
			"fit_id", fitID)
		if errors.Is(err, store.ErrFitNotFound) {
			return ErrFitNotFound
		}
		return NewServiceError("attach_interpretation", "failed to update fit", err)
	}

	s.logger.Debug("interpretation attached", "fit_id", fitID)
	return nil
}

// GetFitForUser retrieves a fit and verifies ownership. A fit owned by
// another user is reported as not found so the API does not leak its
// existence.
func (s *fitServiceImpl) GetFitForUser(
	ctx context.Context,
	userID, fitID uuid.UUID,
) (*domain.ModelFit, error) {
	fit, err := s.fitStore.GetByID(ctx, fitID)
	if err != nil {
		s.logger.Error("failed to retrieve fit",
			"error", err,
			"fit_id", fitID)
		if errors.Is(err, store.ErrFitNotFound) {
			return nil, ErrFitNotFound
		}
		return nil, NewServiceError("get_fit", "failed to retrieve fit", err)
	}

	if fit.UserID != userID {
		s.logger.Warn("fit access denied",
			"fit_id", fitID,
			"owner_id", fit.UserID,
			"user_id", userID)
		return nil, ErrFitNotFound
	}

	return fit, nil
}

// ListFitsForDataset retrieves all fits for a dataset after verifying the
// user owns the dataset.
func (s *fitServiceImpl) ListFitsForDataset(
	ctx context.Context,
	userID, datasetID uuid.UUID,
) ([]*domain.ModelFit, error) {
	dataset, err := s.datasetStore.GetByID(ctx, datasetID)
	if err != nil {
		s.logger.Error("failed to retrieve dataset for fit listing",
			"error", err,
			"dataset_id", datasetID)
		if errors.Is(err, store.ErrDatasetNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, NewServiceError("list_fits", "failed to retrieve dataset", err)
	}

	if dataset.UserID != userID {
		s.logger.Warn("dataset access denied for fit listing",
			"dataset_id", datasetID,
			"owner_id", dataset.UserID,
			"user_id", userID)
		return nil, ErrDatasetNotFound
	}

	fits, err := s.fitStore.FindByDataset(ctx, datasetID)
	if err != nil {
		s.logger.Error("failed to list fits",
			"error", err,
			"dataset_id", datasetID)
		return nil, NewServiceError("list_fits", "failed to list fits", err)
	}

	return fits, nil
}
