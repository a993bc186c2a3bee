package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
)

// Status constants for DatasetFitTask
// These match the TaskStatus values defined in task.go
const (
	statusPending    = "pending"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)

// Common errors
var (
	ErrNilDatasetService = errors.New("dataset service cannot be nil")
	ErrNilFitter         = errors.New("fitter cannot be nil")
	ErrNilFitService     = errors.New("fit service cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrEmptyDatasetID    = errors.New("dataset ID cannot be empty")
)

// DatasetService defines the dataset operations the fit task needs.
type DatasetService interface {
	// GetDataset retrieves a dataset by its ID
	GetDataset(ctx context.Context, datasetID uuid.UUID) (*domain.Dataset, error)

	// UpdateDatasetStatus updates a dataset's processing status
	UpdateDatasetStatus(ctx context.Context, datasetID uuid.UUID, status domain.DatasetStatus) error
}

// Fitter estimates one model family against a dataset.
type Fitter interface {
	// Fit runs the estimation and returns the result for the given family
	Fit(ctx context.Context, dataset *domain.Dataset, family domain.FitFamily) (*domain.FitResult, error)
}

// FitService defines the fit persistence operations the task needs.
type FitService interface {
	// CreateFits saves a batch of model fits in a single transaction
	CreateFits(ctx context.Context, fits []*domain.ModelFit) error

	// AttachInterpretation stores a plain-language interpretation on a fit
	AttachInterpretation(ctx context.Context, fitID uuid.UUID, text string) error
}

// Interpreter produces a plain-language reading of a completed fit.
type Interpreter interface {
	Interpret(ctx context.Context, dataset *domain.Dataset, fit *domain.ModelFit) (string, error)
}

// fitFamilies lists the model families fitted for every dataset, in the
// order their results are stored.
var fitFamilies = []domain.FitFamily{
	domain.FitFamilyExponential,
	domain.FitFamilyLogNormal,
	domain.FitFamilyPropHazards,
}

// datasetFitPayload represents the serialized data stored in the task
type datasetFitPayload struct {
	DatasetID uuid.UUID `json:"dataset_id"`
}

// DatasetFitTask implements the Task interface for fitting survival models
// to an uploaded dataset.
type DatasetFitTask struct {
	id             uuid.UUID
	datasetID      uuid.UUID
	datasetService DatasetService
	fitter         Fitter
	fitService     FitService
	interpreter    Interpreter
	logger         *slog.Logger
	status         string
}

// NewDatasetFitTask creates a new dataset fit task. The interpreter is
// optional; pass nil to skip interpretation.
func NewDatasetFitTask(
	datasetID uuid.UUID,
	datasetService DatasetService,
	fitter Fitter,
	fitService FitService,
	interpreter Interpreter,
	logger *slog.Logger,
) (*DatasetFitTask, error) {
	if datasetService == nil {
		return nil, ErrNilDatasetService
	}
	if fitter == nil {
		return nil, ErrNilFitter
	}
	if fitService == nil {
		return nil, ErrNilFitService
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if datasetID == uuid.Nil {
		return nil, ErrEmptyDatasetID
	}

	return &DatasetFitTask{
		id:             uuid.New(),
		datasetID:      datasetID,
		datasetService: datasetService,
		fitter:         fitter,
		fitService:     fitService,
		interpreter:    interpreter,
		logger:         logger.With("task_type", TaskTypeDatasetFit, "dataset_id", datasetID),
		status:         statusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *DatasetFitTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *DatasetFitTask) Type() string {
	return TaskTypeDatasetFit
}

// Payload returns the task data as a byte slice
func (t *DatasetFitTask) Payload() []byte {
	payload := datasetFitPayload{
		DatasetID: t.datasetID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current task status
func (t *DatasetFitTask) Status() TaskStatus {
	return TaskStatus(t.status)
}

// Execute fits every supported model family to the dataset, stores the
// results, and attaches interpretations when an interpreter is configured.
// The dataset's status tracks the outcome.
func (t *DatasetFitTask) Execute(ctx context.Context) error {
	t.status = statusProcessing
	t.logger.Info("starting dataset fit task")

	if err := ctx.Err(); err != nil {
		t.status = statusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	dataset, err := t.datasetService.GetDataset(ctx, t.datasetID)
	if err != nil {
		t.status = statusFailed
		t.logger.Error("failed to retrieve dataset", "error", err)
		return fmt.Errorf("failed to retrieve dataset: %w", err)
	}

	t.logger.Info("retrieved dataset",
		"user_id", dataset.UserID,
		"observations", len(dataset.Observations),
		"events", dataset.EventCount())

	if err := t.datasetService.UpdateDatasetStatus(ctx, t.datasetID, domain.DatasetStatusProcessing); err != nil {
		t.status = statusFailed
		t.logger.Error("failed to update dataset status to processing", "error", err)
		return fmt.Errorf("failed to update dataset status to processing: %w", err)
	}

	fits := make([]*domain.ModelFit, 0, len(fitFamilies))
	for _, family := range fitFamilies {
		result, err := t.fitter.Fit(ctx, dataset, family)
		if err != nil {
			_ = t.datasetService.UpdateDatasetStatus(ctx, t.datasetID, domain.DatasetStatusFailed)
			t.status = statusFailed
			t.logger.Error("fit failed", "family", family, "error", err)
			return fmt.Errorf("failed to fit %s model: %w", family, err)
		}

		payload, err := json.Marshal(result)
		if err != nil {
			_ = t.datasetService.UpdateDatasetStatus(ctx, t.datasetID, domain.DatasetStatusFailed)
			t.status = statusFailed
			return fmt.Errorf("failed to marshal %s fit result: %w", family, err)
		}

		fit, err := domain.NewModelFit(dataset.UserID, dataset.ID, family, payload)
		if err != nil {
			_ = t.datasetService.UpdateDatasetStatus(ctx, t.datasetID, domain.DatasetStatusFailed)
			t.status = statusFailed
			return fmt.Errorf("failed to build %s model fit: %w", family, err)
		}
		fits = append(fits, fit)
	}

	if err := t.fitService.CreateFits(ctx, fits); err != nil {
		_ = t.datasetService.UpdateDatasetStatus(ctx, t.datasetID, domain.DatasetStatusFailed)
		t.status = statusFailed
		t.logger.Error("failed to save fits", "error", err)
		return fmt.Errorf("failed to save fits: %w", err)
	}

	t.logger.Info("fits saved", "count", len(fits))

	// Interpretation is best effort. The fits are already durable, so a
	// failure here is logged but does not fail the task.
	if t.interpreter != nil {
		for _, fit := range fits {
			text, err := t.interpreter.Interpret(ctx, dataset, fit)
			if err != nil {
				t.logger.Warn("failed to interpret fit",
					"fit_id", fit.ID,
					"family", fit.Family,
					"error", err)
				continue
			}
			if err := t.fitService.AttachInterpretation(ctx, fit.ID, text); err != nil {
				t.logger.Warn("failed to attach interpretation",
					"fit_id", fit.ID,
					"error", err)
			}
		}
	}

	if err := t.datasetService.UpdateDatasetStatus(ctx, t.datasetID, domain.DatasetStatusCompleted); err != nil {
		// The fits are saved; log the error rather than failing the task.
		t.logger.Error("failed to update dataset final status", "error", err)
	}

	t.status = statusCompleted
	t.logger.Info("dataset fit task completed successfully", "fits", len(fits))
	return nil
}
