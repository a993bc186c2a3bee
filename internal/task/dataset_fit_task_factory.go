package task

import (
	"log/slog"

	"github.com/google/uuid"
)

// DatasetFitTaskFactory creates DatasetFitTask instances
type DatasetFitTaskFactory struct {
	datasetService DatasetService
	fitter         Fitter
	fitService     FitService
	interpreter    Interpreter
	logger         *slog.Logger
}

// NewDatasetFitTaskFactory creates a new factory for DatasetFitTasks.
// The interpreter may be nil when interpretation is disabled.
func NewDatasetFitTaskFactory(
	datasetService DatasetService,
	fitter Fitter,
	fitService FitService,
	interpreter Interpreter,
	logger *slog.Logger,
) *DatasetFitTaskFactory {
	return &DatasetFitTaskFactory{
		datasetService: datasetService,
		fitter:         fitter,
		fitService:     fitService,
		interpreter:    interpreter,
		logger:         logger.With("component", "dataset_fit_task_factory"),
	}
}

// CreateTask creates a new DatasetFitTask for the specified dataset
func (f *DatasetFitTaskFactory) CreateTask(datasetID uuid.UUID) (Task, error) {
	task, err := NewDatasetFitTask(
		datasetID,
		f.datasetService,
		f.fitter,
		f.fitService,
		f.interpreter,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}
