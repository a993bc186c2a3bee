package domain

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DatasetStatus represents the processing state of an uploaded dataset.
type DatasetStatus string

// Possible dataset status values
const (
	DatasetStatusPending    DatasetStatus = "pending"
	DatasetStatusProcessing DatasetStatus = "processing"
	DatasetStatusCompleted  DatasetStatus = "completed"
	DatasetStatusFailed     DatasetStatus = "failed"
)

// Common validation errors for Dataset
var (
	ErrDatasetIDEmpty        = errors.New("dataset ID cannot be empty")
	ErrDatasetUserIDEmpty    = errors.New("dataset user ID cannot be empty")
	ErrDatasetNameEmpty      = errors.New("dataset name cannot be empty")
	ErrDatasetNoObservations = errors.New("dataset must contain at least one observation")
	ErrInvalidDatasetStatus  = errors.New("invalid dataset status")
	ErrInvalidObservation    = errors.New("invalid observation")
)

// Observation is a single right-censored duration record. Duration is the
// observed time on study; Event is true when the endpoint occurred and false
// when the observation was censored. Arm is the treatment indicator (0 for
// control, 1 for treatment). Covariates carries optional numeric adjusters
// keyed by name.
type Observation struct {
	Duration   float64            `json:"duration"`
	Event      bool               `json:"event"`
	Arm        int                `json:"arm"`
	Covariates map[string]float64 `json:"covariates,omitempty"`
}

// Validate checks a single observation.
func (o Observation) Validate() error {
	if o.Duration <= 0 {
		return ErrInvalidObservation
	}
	if o.Arm != 0 && o.Arm != 1 {
		return ErrInvalidObservation
	}
	return nil
}

// Dataset represents a duration dataset uploaded by a user for model
// fitting. It tracks the raw observations and the processing state of the
// fitting pipeline.
type Dataset struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Name         string        `json:"name"`
	Observations []Observation `json:"observations"`
	Status       DatasetStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewDataset creates a new Dataset with the given user ID, name and
// observations. It generates a new UUID for the dataset ID, sets the status
// to pending, and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewDataset(userID uuid.UUID, name string, observations []Observation) (*Dataset, error) {
	dataset := &Dataset{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		Observations: observations,
		Status:       DatasetStatusPending,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := dataset.Validate(); err != nil {
		return nil, err
	}

	return dataset, nil
}

// Validate checks if the Dataset has valid data.
// Returns an error if any field fails validation.
func (d *Dataset) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDatasetIDEmpty
	}

	if d.UserID == uuid.Nil {
		return ErrDatasetUserIDEmpty
	}

	if d.Name == "" {
		return ErrDatasetNameEmpty
	}

	if len(d.Observations) == 0 {
		return ErrDatasetNoObservations
	}

	for _, obs := range d.Observations {
		if err := obs.Validate(); err != nil {
			return err
		}
	}

	if !isValidDatasetStatus(d.Status) {
		return ErrInvalidDatasetStatus
	}

	return nil
}

// UpdateStatus updates the dataset's status and the UpdatedAt timestamp.
// Returns an error if the new status is invalid.
func (d *Dataset) UpdateStatus(status DatasetStatus) error {
	if !isValidDatasetStatus(status) {
		return ErrInvalidDatasetStatus
	}

	d.Status = status
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// EventCount returns the number of uncensored observations.
func (d *Dataset) EventCount() int {
	n := 0
	for _, obs := range d.Observations {
		if obs.Event {
			n++
		}
	}
	return n
}

// CovariateNames returns the sorted union of covariate names present in the
// observations. Observations missing a covariate are treated as zero by the
// fitting layer.
func (d *Dataset) CovariateNames() []string {
	seen := map[string]bool{}
	for _, obs := range d.Observations {
		for name := range obs.Covariates {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// isValidDatasetStatus checks if the given status is a valid DatasetStatus.
func isValidDatasetStatus(status DatasetStatus) bool {
	switch status {
	case DatasetStatusPending, DatasetStatusProcessing,
		DatasetStatusCompleted, DatasetStatusFailed:
		return true
	default:
		return false
	}
}
