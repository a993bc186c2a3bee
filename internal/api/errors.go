package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lburgess/aftlab/internal/api/shared"
	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/service"
	"github.com/lburgess/aftlab/internal/service/auth"
	"github.com/lburgess/aftlab/internal/stats/lognorm"
	"github.com/lburgess/aftlab/internal/stats/simulate"
	"github.com/lburgess/aftlab/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrDatasetNotFound),
		errors.Is(err, store.ErrFitNotFound),
		errors.Is(err, service.ErrDatasetNotFound),
		errors.Is(err, service.ErrFitNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Domain computation errors carry enough structure to be actionable,
	// so they get 422 rather than a generic 400.
	case isDomainComputationError(err):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// isDomainComputationError reports whether err came from the statistical
// domain layer (conversions or simulation input checking).
func isDomainComputationError(err error) bool {
	return errors.Is(err, lognorm.ErrNonPositiveMean) ||
		errors.Is(err, lognorm.ErrNegativeVariance) ||
		errors.Is(err, lognorm.ErrNegativeSigma) ||
		errors.Is(err, lognorm.ErrNotFinite) ||
		errors.Is(err, simulate.ErrSampleSizeTooSmall) ||
		errors.Is(err, simulate.ErrSampleSizeTooLarge) ||
		errors.Is(err, simulate.ErrInvalidAcceleration) ||
		errors.Is(err, simulate.ErrInvalidHorizon) ||
		errors.Is(err, simulate.ErrInvalidControlMoment)
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrDatasetNotFound),
		errors.Is(err, service.ErrDatasetNotFound):
		return "Dataset not found"

	case errors.Is(err, store.ErrFitNotFound),
		errors.Is(err, service.ErrFitNotFound):
		return "Model fit not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Domain computation errors are safe to echo: they describe the
	// user's own inputs, not internals.
	case isDomainComputationError(err):
		return err.Error()

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
		}
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status code and safe message and writes the
// response, logging the underlying error. An empty userMessage falls back to
// the mapped safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError converts validator errors into user-friendly
// messages without exposing struct internals.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example: "Key: 'LoginRequest.Email' Error:Field validation for
	// 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt":
		return "must be positive"
	case "gte":
		return "must not be negative"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
