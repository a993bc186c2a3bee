package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/events"
	"github.com/lburgess/aftlab/internal/store"
	"github.com/lburgess/aftlab/internal/task"
)

// DatasetService provides dataset-related operations.
type DatasetService interface {
	// CreateDatasetAndEnqueueFit creates a new dataset with pending status
	// and requests background fitting of all model families.
	CreateDatasetAndEnqueueFit(
		ctx context.Context,
		userID uuid.UUID,
		name string,
		observations []domain.Observation,
	) (*domain.Dataset, error)

	// GetDataset retrieves a dataset by its ID regardless of owner. It is
	// used by the background fitting pipeline.
	GetDataset(ctx context.Context, datasetID uuid.UUID) (*domain.Dataset, error)

	// GetDatasetForUser retrieves a dataset owned by the given user.
	// Returns ErrDatasetNotFound when the dataset does not exist or is
	// owned by someone else.
	GetDatasetForUser(ctx context.Context, userID, datasetID uuid.UUID) (*domain.Dataset, error)

	// UpdateDatasetStatus updates a dataset's processing status.
	UpdateDatasetStatus(ctx context.Context, datasetID uuid.UUID, status domain.DatasetStatus) error

	// ListDatasets retrieves the user's datasets, newest first.
	ListDatasets(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Dataset, error)
}

// datasetServiceImpl implements the DatasetService interface.
type datasetServiceImpl struct {
	datasetStore store.DatasetStore
	db           *sql.DB
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// NewDatasetService creates a new DatasetService.
// It returns an error if any of the required dependencies are nil.
func NewDatasetService(
	datasetStore store.DatasetStore,
	db *sql.DB,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (DatasetService, error) {
	if datasetStore == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "datasetStore cannot be nil"}
	}
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &datasetServiceImpl{
		datasetStore: datasetStore,
		db:           db,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "dataset_service"),
	}, nil
}

// CreateDatasetAndEnqueueFit creates a dataset with pending status and emits
// a task request event for the fitting pipeline. The dataset is persisted in
// a transaction before the event is emitted. A failure between the two
// leaves a pending dataset with no task row; task recovery only requeues
// persisted tasks, so such a dataset stays pending and the caller, who saw
// the request fail, is expected to retry the upload.
func (s *datasetServiceImpl) CreateDatasetAndEnqueueFit(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	observations []domain.Observation,
) (*domain.Dataset, error) {
	dataset, err := domain.NewDataset(userID, name, observations)
	if err != nil {
		s.logger.Error("failed to create dataset object",
			"error", err,
			"user_id", userID)
		return nil, NewServiceError("create_dataset", "failed to create dataset object", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.datasetStore.WithTx(tx)

		if err := txStore.Create(ctx, dataset); err != nil {
			s.logger.Error("failed to create dataset in transaction",
				"error", err,
				"user_id", userID,
				"dataset_id", dataset.ID)
			return NewServiceError("create_dataset", "failed to save dataset", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("dataset created with pending status",
		"dataset_id", dataset.ID,
		"user_id", userID,
		"observations", len(dataset.Observations))

	payload := struct {
		DatasetID uuid.UUID `json:"dataset_id"`
	}{
		DatasetID: dataset.ID,
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeDatasetFit, payload)
	if err != nil {
		s.logger.Error("failed to create dataset fit event",
			"error", err,
			"dataset_id", dataset.ID)
		return nil, NewServiceError("create_dataset", "failed to create event", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit dataset fit event",
			"error", err,
			"dataset_id", dataset.ID,
			"event_id", event.ID)
		return nil, NewServiceError("create_dataset", "failed to emit event", err)
	}

	s.logger.Info("dataset fit event emitted",
		"dataset_id", dataset.ID,
		"event_id", event.ID)

	return dataset, nil
}

// GetDataset retrieves a dataset by its ID.
func (s *datasetServiceImpl) GetDataset(ctx context.Context, datasetID uuid.UUID) (*domain.Dataset, error) {
	dataset, err := s.datasetStore.GetByID(ctx, datasetID)
	if err != nil {
		s.logger.Error("failed to retrieve dataset",
			"error", err,
			"dataset_id", datasetID)
		if errors.Is(err, store.ErrDatasetNotFound) {
			return nil, ErrDatasetNotFound
		}
		return nil, NewServiceError("get_dataset", "failed to retrieve dataset", err)
	}

	return dataset, nil
}

// GetDatasetForUser retrieves a dataset and verifies ownership. A dataset
// owned by another user is reported as not found so the API does not leak
// its existence.
func (s *datasetServiceImpl) GetDatasetForUser(
	ctx context.Context,
	userID, datasetID uuid.UUID,
) (*domain.Dataset, error) {
	dataset, err := s.GetDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	if dataset.UserID != userID {
		s.logger.Warn("dataset access denied",
			"dataset_id", datasetID,
			"owner_id", dataset.UserID,
			"user_id", userID)
		return nil, ErrDatasetNotFound
	}

	return dataset, nil
}

// UpdateDatasetStatus updates a dataset's processing status inside a
// transaction, rereading the dataset first so the domain transition rules
// are applied against its current state.
func (s *datasetServiceImpl) UpdateDatasetStatus(
	ctx context.Context,
	datasetID uuid.UUID,
	status domain.DatasetStatus,
) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.datasetStore.WithTx(tx)

		dataset, err := txStore.GetByID(ctx, datasetID)
		if err != nil {
			s.logger.Error("failed to retrieve dataset for status update",
				"error", err,
				"dataset_id", datasetID,
				"target_status", status)
			if errors.Is(err, store.ErrDatasetNotFound) {
				return ErrDatasetNotFound
			}
			return NewServiceError("update_dataset_status", "failed to retrieve dataset", err)
		}

		if err := dataset.UpdateStatus(status); err != nil {
			s.logger.Error("invalid dataset status transition",
				"error", err,
				"dataset_id", datasetID,
				"current_status", dataset.Status,
				"target_status", status)
			return NewServiceError(
				"update_dataset_status",
				fmt.Sprintf("failed to update dataset status to %s", status),
				err,
			)
		}

		if err := txStore.UpdateStatus(ctx, datasetID, dataset.Status); err != nil {
			s.logger.Error("failed to save dataset status",
				"error", err,
				"dataset_id", datasetID,
				"target_status", status)
			if errors.Is(err, store.ErrDatasetNotFound) {
				return ErrDatasetNotFound
			}
			return NewServiceError("update_dataset_status", "failed to save dataset status", err)
		}

		s.logger.Info("dataset status updated",
			"dataset_id", datasetID,
			"status", status)
		return nil
	})
}

// ListDatasets retrieves the user's datasets, newest first.
func (s *datasetServiceImpl) ListDatasets(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Dataset, error) {
	datasets, err := s.datasetStore.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list datasets",
			"error", err,
			"user_id", userID)
		return nil, NewServiceError("list_datasets", "failed to list datasets", err)
	}

	return datasets, nil
}
