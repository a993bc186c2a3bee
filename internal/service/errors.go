package service

import (
	"errors"
	"fmt"

	"github.com/lburgess/aftlab/internal/store"
)

// Common sentinel errors returned by the services.
var (
	// ErrDatasetNotFound indicates that the dataset does not exist or is
	// not visible to the requesting user.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrFitNotFound indicates that the model fit does not exist or is
	// not visible to the requesting user.
	ErrFitNotFound = errors.New("model fit not found")
)

// ServiceError wraps errors from the service layer with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_dataset")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. Known sentinel errors pass
// through directly so callers can match on them; store-level not-found
// errors are mapped to their service-level equivalents.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrDatasetNotFound) || errors.Is(err, store.ErrDatasetNotFound) {
		return ErrDatasetNotFound
	}
	if errors.Is(err, ErrFitNotFound) || errors.Is(err, store.ErrFitNotFound) {
		return ErrFitNotFound
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
