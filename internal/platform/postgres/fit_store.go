package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/platform/logger"
	"github.com/lburgess/aftlab/internal/store"
)

// PostgresFitStore implements the store.FitStore interface using a
// PostgreSQL database. The fit result payload is stored as JSONB.
type PostgresFitStore struct {
	db store.DBTX
}

// NewPostgresFitStore creates a new PostgreSQL implementation of the
// FitStore interface. The database connection is initialized and managed
// by the caller.
func NewPostgresFitStore(db store.DBTX) *PostgresFitStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresFitStore{db: db}
}

// Ensure PostgresFitStore implements store.FitStore
var _ store.FitStore = (*PostgresFitStore)(nil)

// Create implements store.FitStore.Create
func (s *PostgresFitStore) Create(ctx context.Context, fit *domain.ModelFit) error {
	log := logger.FromContext(ctx)

	if err := fit.Validate(); err != nil {
		log.Warn("fit validation failed during create",
			"error", err,
			"fit_id", fit.ID)
		return err
	}

	query := `
		INSERT INTO model_fits (id, user_id, dataset_id, family, result, interpretation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		fit.ID,
		fit.UserID,
		fit.DatasetID,
		fit.Family,
		[]byte(fit.Result),
		fit.Interpretation,
		fit.CreatedAt,
		fit.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("fit references missing user or dataset",
				"fit_id", fit.ID,
				"dataset_id", fit.DatasetID)
			return store.ErrInvalidEntity
		}
		log.Error("failed to create fit", "error", err, "fit_id", fit.ID)
		return MapError(err)
	}

	log.Debug("fit created",
		"fit_id", fit.ID,
		"dataset_id", fit.DatasetID,
		"family", fit.Family)
	return nil
}

// GetByID implements store.FitStore.GetByID
func (s *PostgresFitStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ModelFit, error) {
	query := `
		SELECT id, user_id, dataset_id, family, result, interpretation, created_at, updated_at
		FROM model_fits
		WHERE id = $1
	`

	var fit domain.ModelFit
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&fit.ID,
		&fit.UserID,
		&fit.DatasetID,
		&fit.Family,
		&fit.Result,
		&fit.Interpretation,
		&fit.CreatedAt,
		&fit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFitNotFound
		}
		return nil, MapError(err)
	}

	return &fit, nil
}

// FindByDataset implements store.FitStore.FindByDataset
func (s *PostgresFitStore) FindByDataset(ctx context.Context, datasetID uuid.UUID) ([]*domain.ModelFit, error) {
	query := `
		SELECT id, user_id, dataset_id, family, result, interpretation, created_at, updated_at
		FROM model_fits
		WHERE dataset_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, datasetID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	fits := []*domain.ModelFit{}
	for rows.Next() {
		var fit domain.ModelFit
		if err := rows.Scan(
			&fit.ID,
			&fit.UserID,
			&fit.DatasetID,
			&fit.Family,
			&fit.Result,
			&fit.Interpretation,
			&fit.CreatedAt,
			&fit.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		fits = append(fits, &fit)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return fits, nil
}

// UpdateInterpretation implements store.FitStore.UpdateInterpretation
func (s *PostgresFitStore) UpdateInterpretation(ctx context.Context, id uuid.UUID, interpretation string) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE model_fits
		SET interpretation = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, interpretation, id)
	if err != nil {
		log.Error("failed to update fit interpretation", "error", err, "fit_id", id)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrFitNotFound)
}

// WithTx implements store.FitStore.WithTx
func (s *PostgresFitStore) WithTx(tx *sql.Tx) store.FitStore {
	return &PostgresFitStore{db: tx}
}
