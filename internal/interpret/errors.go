package interpret

import "errors"

// Common errors returned by the interpret package
var (
	// ErrInterpretationFailed is returned when interpretation fails for any
	// general reason.
	ErrInterpretationFailed = errors.New("failed to interpret fit")

	// ErrInvalidResponse is returned when the language model response is
	// empty or malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the language model blocks the
	// content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry.
	ErrTransientFailure = errors.New("transient error during interpretation")

	// ErrInvalidConfig is returned when the interpreter configuration is
	// invalid.
	ErrInvalidConfig = errors.New("invalid interpreter configuration")
)
