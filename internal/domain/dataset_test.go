package domain

import (
	"testing"

	"github.com/google/uuid"
)

func validObservations() []Observation {
	return []Observation{
		{Duration: 12.5, Event: true, Arm: 0},
		{Duration: 30, Event: false, Arm: 1, Covariates: map[string]float64{"age": 61}},
		{Duration: 7.25, Event: true, Arm: 1, Covariates: map[string]float64{"age": 48, "stage": 2}},
	}
}

func TestNewDataset(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	dataset, err := NewDataset(userID, "trial-a", validObservations())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if dataset.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if dataset.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, dataset.UserID)
	}

	if dataset.Status != DatasetStatusPending {
		t.Errorf("Expected status %s, got %s", DatasetStatusPending, dataset.Status)
	}

	if dataset.CreatedAt.IsZero() || dataset.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	// Invalid user ID
	if _, err := NewDataset(uuid.Nil, "trial-a", validObservations()); err != ErrDatasetUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrDatasetUserIDEmpty, err)
	}

	// Empty name
	if _, err := NewDataset(userID, "", validObservations()); err != ErrDatasetNameEmpty {
		t.Errorf("Expected error %v, got %v", ErrDatasetNameEmpty, err)
	}

	// No observations
	if _, err := NewDataset(userID, "trial-a", nil); err != ErrDatasetNoObservations {
		t.Errorf("Expected error %v, got %v", ErrDatasetNoObservations, err)
	}
}

func TestDatasetValidateObservations(t *testing.T) {
	t.Parallel()

	bad := []Observation{
		{Duration: 0, Event: true, Arm: 0},
	}
	if _, err := NewDataset(uuid.New(), "bad", bad); err != ErrInvalidObservation {
		t.Errorf("Expected error %v, got %v", ErrInvalidObservation, err)
	}

	badArm := []Observation{
		{Duration: 5, Event: true, Arm: 2},
	}
	if _, err := NewDataset(uuid.New(), "bad-arm", badArm); err != ErrInvalidObservation {
		t.Errorf("Expected error %v, got %v", ErrInvalidObservation, err)
	}
}

func TestDatasetUpdateStatus(t *testing.T) {
	t.Parallel()

	dataset, err := NewDataset(uuid.New(), "trial-a", validObservations())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := dataset.UpdateStatus(DatasetStatusProcessing); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if dataset.Status != DatasetStatusProcessing {
		t.Errorf("Expected status %s, got %s", DatasetStatusProcessing, dataset.Status)
	}

	if err := dataset.UpdateStatus("bogus"); err != ErrInvalidDatasetStatus {
		t.Errorf("Expected error %v, got %v", ErrInvalidDatasetStatus, err)
	}
}

func TestDatasetAggregates(t *testing.T) {
	t.Parallel()

	dataset, err := NewDataset(uuid.New(), "trial-a", validObservations())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := dataset.EventCount(); got != 2 {
		t.Errorf("Expected 2 events, got %d", got)
	}

	names := dataset.CovariateNames()
	if len(names) != 2 || names[0] != "age" || names[1] != "stage" {
		t.Errorf("Expected sorted covariate names [age stage], got %v", names)
	}
}
