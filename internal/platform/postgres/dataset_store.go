package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/platform/logger"
	"github.com/lburgess/aftlab/internal/store"
)

// PostgresDatasetStore implements the store.DatasetStore interface using a
// PostgreSQL database. Observations are stored as a JSONB column so the
// variable covariate sets need no schema changes.
type PostgresDatasetStore struct {
	db store.DBTX
}

// NewPostgresDatasetStore creates a new PostgreSQL implementation of the
// DatasetStore interface. The database connection is initialized and
// managed by the caller.
func NewPostgresDatasetStore(db store.DBTX) *PostgresDatasetStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresDatasetStore{db: db}
}

// Ensure PostgresDatasetStore implements store.DatasetStore
var _ store.DatasetStore = (*PostgresDatasetStore)(nil)

// Create implements store.DatasetStore.Create
func (s *PostgresDatasetStore) Create(ctx context.Context, dataset *domain.Dataset) error {
	log := logger.FromContext(ctx)

	if err := dataset.Validate(); err != nil {
		log.Warn("dataset validation failed during create",
			"error", err,
			"dataset_id", dataset.ID)
		return err
	}

	observations, err := json.Marshal(dataset.Observations)
	if err != nil {
		return fmt.Errorf("failed to marshal observations: %w", err)
	}

	query := `
		INSERT INTO datasets (id, user_id, name, observations, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		dataset.ID,
		dataset.UserID,
		dataset.Name,
		observations,
		dataset.Status,
		dataset.CreatedAt,
		dataset.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("dataset references missing user",
				"dataset_id", dataset.ID,
				"user_id", dataset.UserID)
			return store.ErrInvalidEntity
		}
		log.Error("failed to create dataset", "error", err, "dataset_id", dataset.ID)
		return MapError(err)
	}

	log.Debug("dataset created",
		"dataset_id", dataset.ID,
		"user_id", dataset.UserID,
		"observations", len(dataset.Observations))
	return nil
}

// GetByID implements store.DatasetStore.GetByID
func (s *PostgresDatasetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	query := `
		SELECT id, user_id, name, observations, status, created_at, updated_at
		FROM datasets
		WHERE id = $1
	`

	var (
		dataset      domain.Dataset
		observations []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&dataset.ID,
		&dataset.UserID,
		&dataset.Name,
		&observations,
		&dataset.Status,
		&dataset.CreatedAt,
		&dataset.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDatasetNotFound
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(observations, &dataset.Observations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal observations: %w", err)
	}

	return &dataset, nil
}

// UpdateStatus implements store.DatasetStore.UpdateStatus
func (s *PostgresDatasetStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DatasetStatus) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE datasets
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		log.Error("failed to update dataset status",
			"error", err,
			"dataset_id", id,
			"status", status)
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDatasetNotFound)
}

// FindByUser implements store.DatasetStore.FindByUser
func (s *PostgresDatasetStore) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Dataset, error) {
	query := `
		SELECT id, user_id, name, observations, status, created_at, updated_at
		FROM datasets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	datasets := []*domain.Dataset{}
	for rows.Next() {
		var (
			dataset      domain.Dataset
			observations []byte
		)
		if err := rows.Scan(
			&dataset.ID,
			&dataset.UserID,
			&dataset.Name,
			&observations,
			&dataset.Status,
			&dataset.CreatedAt,
			&dataset.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		if err := json.Unmarshal(observations, &dataset.Observations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal observations: %w", err)
		}
		datasets = append(datasets, &dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return datasets, nil
}

// WithTx implements store.DatasetStore.WithTx
func (s *PostgresDatasetStore) WithTx(tx *sql.Tx) store.DatasetStore {
	return &PostgresDatasetStore{db: tx}
}
