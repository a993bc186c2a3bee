package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// FitFamily names the model family a fit belongs to.
type FitFamily string

// Supported fit families.
const (
	FitFamilyExponential FitFamily = "exponential"
	FitFamilyLogNormal   FitFamily = "lognormal"
	FitFamilyPropHazards FitFamily = "proportional_hazards"
)

// ModelFit-specific validation errors
var (
	// ErrFitIDEmpty is returned when a fit ID is empty or nil.
	ErrFitIDEmpty = errors.New("fit ID cannot be empty")

	// ErrFitUserIDEmpty is returned when a fit's user ID is empty or nil.
	ErrFitUserIDEmpty = errors.New("fit user ID cannot be empty")

	// ErrFitDatasetIDEmpty is returned when a fit's dataset ID is empty or nil.
	ErrFitDatasetIDEmpty = errors.New("fit dataset ID cannot be empty")

	// ErrFitFamilyInvalid is returned when a fit's family is not recognized.
	ErrFitFamilyInvalid = errors.New("unknown fit family")

	// ErrFitResultEmpty is returned when a fit's result is empty.
	ErrFitResultEmpty = errors.New("fit result cannot be empty")

	// ErrFitResultInvalid is returned when a fit's result is not valid JSON.
	ErrFitResultInvalid = errors.New("fit result must be valid JSON")
)

// ModelFit represents the stored outcome of fitting a model family to a
// dataset. Result is kept as a JSONB structure so different families can
// report different quantities without schema churn.
type ModelFit struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	DatasetID      uuid.UUID       `json:"dataset_id"`
	Family         FitFamily       `json:"family"`
	Result         json.RawMessage `json:"result"`
	Interpretation string          `json:"interpretation,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FitResult is the canonical shape of the Result field for the families this
// service fits. Coefficients are on the model's native scale; the lognormal
// block carries both the location/scale parameters and the natural-scale
// moments derived from them.
type FitResult struct {
	Terms      []FitTerm         `json:"terms,omitempty"`
	LogNormal  *LogNormalSummary `json:"lognormal,omitempty"`
	Events     int               `json:"events"`
	Censored   int               `json:"censored"`
	SampleSize int               `json:"sample_size"`
	Summary    string            `json:"summary,omitempty"`
}

// FitTerm is one estimated regression coefficient.
type FitTerm struct {
	Name        string  `json:"name"`
	Coefficient float64 `json:"coefficient"`
	StdErr      float64 `json:"std_err"`
	HazardRatio float64 `json:"hazard_ratio,omitempty"`
}

// LogNormalSummary reports a lognormal description of the uncensored event
// times in both parameterizations.
type LogNormalSummary struct {
	Mu       float64 `json:"mu"`
	Sigma    float64 `json:"sigma"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// NewModelFit creates a new ModelFit with the given owner, dataset, family
// and result payload. It generates a new UUID for the fit ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewModelFit(userID, datasetID uuid.UUID, family FitFamily, result json.RawMessage) (*ModelFit, error) {
	fit := &ModelFit{
		ID:        uuid.New(),
		UserID:    userID,
		DatasetID: datasetID,
		Family:    family,
		Result:    result,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := fit.Validate(); err != nil {
		return nil, err
	}

	return fit, nil
}

// Validate checks if the ModelFit has valid data.
// Returns an error if any field fails validation.
func (f *ModelFit) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFitIDEmpty
	}

	if f.UserID == uuid.Nil {
		return ErrFitUserIDEmpty
	}

	if f.DatasetID == uuid.Nil {
		return ErrFitDatasetIDEmpty
	}

	switch f.Family {
	case FitFamilyExponential, FitFamilyLogNormal, FitFamilyPropHazards:
	default:
		return ErrFitFamilyInvalid
	}

	if len(f.Result) == 0 {
		return ErrFitResultEmpty
	}

	var js json.RawMessage
	if err := json.Unmarshal(f.Result, &js); err != nil {
		return ErrFitResultInvalid
	}

	return nil
}

// AttachInterpretation stores a plain-language interpretation and bumps the
// UpdatedAt timestamp.
func (f *ModelFit) AttachInterpretation(text string) {
	f.Interpretation = text
	f.UpdatedAt = time.Now().UTC()
}

// DecodeResult unmarshals the stored result into its canonical shape.
func (f *ModelFit) DecodeResult() (*FitResult, error) {
	var result FitResult
	if err := json.Unmarshal(f.Result, &result); err != nil {
		return nil, ErrFitResultInvalid
	}
	return &result, nil
}
