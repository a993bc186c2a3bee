package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
)

// DatasetStore defines the interface for dataset persistence.
type DatasetStore interface {
	// Create saves a new dataset, validating it first.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, dataset *domain.Dataset) error

	// GetByID retrieves a dataset by its unique ID.
	// Returns ErrDatasetNotFound if the dataset does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error)

	// UpdateStatus updates the status of an existing dataset.
	// Returns ErrDatasetNotFound if the dataset does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DatasetStatus) error

	// FindByUser retrieves datasets owned by the given user, newest first.
	// Returns an empty slice when the user has none.
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Dataset, error)

	// WithTx returns a DatasetStore bound to the provided transaction.
	WithTx(tx *sql.Tx) DatasetStore
}
