package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/lburgess/aftlab/internal/domain"
)

// Auth

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// Datasets and fits

// ObservationRequest is a single duration record in a dataset upload.
type ObservationRequest struct {
	Duration   float64            `json:"duration"   validate:"required,gt=0"`
	Event      bool               `json:"event"`
	Arm        int                `json:"arm"        validate:"gte=0,lte=1"`
	Covariates map[string]float64 `json:"covariates,omitempty"`
}

// CreateDatasetRequest defines the payload for the dataset upload endpoint.
type CreateDatasetRequest struct {
	Name         string               `json:"name"         validate:"required,min=1,max=200"`
	Observations []ObservationRequest `json:"observations" validate:"required,min=1,dive"`
}

// DatasetResponse describes a dataset without its raw observations.
type DatasetResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Observations int       `json:"observations"`
	Events       int       `json:"events"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewDatasetResponse converts a domain dataset to its API shape.
func NewDatasetResponse(dataset *domain.Dataset) DatasetResponse {
	return DatasetResponse{
		ID:           dataset.ID,
		Name:         dataset.Name,
		Status:       string(dataset.Status),
		Observations: len(dataset.Observations),
		Events:       dataset.EventCount(),
		CreatedAt:    dataset.CreatedAt,
		UpdatedAt:    dataset.UpdatedAt,
	}
}

// FitResponse describes a stored model fit.
type FitResponse struct {
	ID             uuid.UUID        `json:"id"`
	DatasetID      uuid.UUID        `json:"dataset_id"`
	Family         string           `json:"family"`
	Result         domain.FitResult `json:"result"`
	Interpretation string           `json:"interpretation,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewFitResponse converts a domain fit to its API shape. An unparseable
// result is returned empty rather than failing the request.
func NewFitResponse(fit *domain.ModelFit) FitResponse {
	result, _ := fit.DecodeResult()
	resp := FitResponse{
		ID:        fit.ID,
		DatasetID: fit.DatasetID,
		Family:    string(fit.Family),
		CreatedAt: fit.CreatedAt,
	}
	if result != nil {
		resp.Result = *result
	}
	resp.Interpretation = fit.Interpretation
	return resp
}

// Lognormal conversions

// ParamsRequest asks for the (mu, sigma) parameterization matching
// natural-scale moments.
type ParamsRequest struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// ParamsResponse carries the location/scale answer.
type ParamsResponse struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// MomentsRequest asks for the natural-scale moments matching a (mu, sigma)
// parameterization.
type MomentsRequest struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

// MomentsResponse carries the natural-scale answer.
type MomentsResponse struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// Simulation

// SimulateRequest defines the payload for the two-arm simulation endpoint.
type SimulateRequest struct {
	ControlMean     float64 `json:"control_mean"`
	ControlVariance float64 `json:"control_variance"`
	Acceleration    float64 `json:"acceleration"`
	PerArm          int     `json:"per_arm"`
	Horizon         float64 `json:"horizon"`
	Seed            uint64  `json:"seed"`
}
