package fitting

import (
	"context"

	"github.com/lburgess/aftlab/internal/domain"
)

// Fitter estimates a model family against a duration dataset. The estimator
// is treated as opaque: callers receive a populated FitResult and never see
// the underlying numerical library.
type Fitter interface {
	// Fit estimates the given family on the dataset. It returns
	// ErrUnsupportedFamily for unknown families and ErrTooFewEvents when
	// the dataset cannot support the estimation.
	Fit(ctx context.Context, dataset *domain.Dataset, family domain.FitFamily) (*domain.FitResult, error)
}
