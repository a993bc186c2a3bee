package interpret

import (
	"context"

	"github.com/lburgess/aftlab/internal/domain"
)

// Interpreter produces a plain-language reading of a completed model fit,
// written for an analyst who is not a statistician.
type Interpreter interface {
	// Interpret describes the fit in the context of its dataset. The
	// returned text is prose, not JSON or markup.
	Interpret(ctx context.Context, dataset *domain.Dataset, fit *domain.ModelFit) (string, error)
}
