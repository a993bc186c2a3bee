package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
)

// FitStore defines the interface for model-fit persistence.
type FitStore interface {
	// Create saves a new model fit, validating it first.
	// Returns ErrInvalidEntity if the dataset or user does not exist.
	Create(ctx context.Context, fit *domain.ModelFit) error

	// GetByID retrieves a fit by its unique ID.
	// Returns ErrFitNotFound if the fit does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelFit, error)

	// FindByDataset retrieves all fits for a dataset, newest first.
	// Returns an empty slice when the dataset has none.
	FindByDataset(ctx context.Context, datasetID uuid.UUID) ([]*domain.ModelFit, error)

	// UpdateInterpretation attaches a plain-language interpretation to an
	// existing fit. Returns ErrFitNotFound if the fit does not exist.
	UpdateInterpretation(ctx context.Context, id uuid.UUID, interpretation string) error

	// WithTx returns a FitStore bound to the provided transaction.
	WithTx(tx *sql.Tx) FitStore
}
