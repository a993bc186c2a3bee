package fitting

import "errors"

// Common errors returned by the fitting package
var (
	// ErrFitFailed is returned when the estimator fails to converge or
	// otherwise cannot produce a result.
	ErrFitFailed = errors.New("failed to fit model to dataset")

	// ErrTooFewEvents is returned when the dataset has too few uncensored
	// events to estimate the requested family.
	ErrTooFewEvents = errors.New("too few events to fit model")

	// ErrUnsupportedFamily is returned when the requested model family is
	// not recognized.
	ErrUnsupportedFamily = errors.New("unsupported model family")
)
