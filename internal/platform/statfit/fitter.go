package statfit

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/kshedden/statmodel/duration"
	"github.com/kshedden/statmodel/statmodel"
	"gonum.org/v1/gonum/stat"

	"github.com/lburgess/aftlab/internal/domain"
	"github.com/lburgess/aftlab/internal/fitting"
	"github.com/lburgess/aftlab/internal/stats/lognorm"
)

// Fitter estimates survival model families using statmodel for regression
// and closed-form estimators for the parametric families.
type Fitter struct {
	logger *slog.Logger
}

// NewFitter creates a statmodel-backed fitter.
func NewFitter(logger *slog.Logger) *Fitter {
	return &Fitter{
		logger: logger.With("component", "statfit"),
	}
}

var _ fitting.Fitter = (*Fitter)(nil)

// Fit implements fitting.Fitter.
func (f *Fitter) Fit(ctx context.Context, dataset *domain.Dataset, family domain.FitFamily) (*domain.FitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := dataset.EventCount()
	f.logger.Debug("fitting model",
		"dataset_id", dataset.ID,
		"family", family,
		"observations", len(dataset.Observations),
		"events", events)

	switch family {
	case domain.FitFamilyExponential:
		return f.fitExponential(dataset)
	case domain.FitFamilyLogNormal:
		return f.fitLogNormal(dataset)
	case domain.FitFamilyPropHazards:
		return f.fitPropHazards(dataset)
	default:
		return nil, fmt.Errorf("%w: %s", fitting.ErrUnsupportedFamily, family)
	}
}

// fitExponential estimates a constant event rate. Censored observations
// contribute exposure time but no events, so the maximum likelihood rate is
// the event count over the total time at risk.
func (f *Fitter) fitExponential(dataset *domain.Dataset) (*domain.FitResult, error) {
	events := dataset.EventCount()
	if events == 0 {
		return nil, fmt.Errorf("%w: exponential family needs at least one event", fitting.ErrTooFewEvents)
	}

	var totalTime float64
	for _, obs := range dataset.Observations {
		totalTime += obs.Duration
	}

	rate := float64(events) / totalTime
	result := &domain.FitResult{
		Terms: []domain.FitTerm{
			{
				Name:        "rate",
				Coefficient: rate,
				StdErr:      rate / math.Sqrt(float64(events)),
			},
		},
		Events:     events,
		Censored:   len(dataset.Observations) - events,
		SampleSize: len(dataset.Observations),
		Summary: fmt.Sprintf("Exponential fit: %d events over %.4g time units at risk, rate %.6g, mean duration %.6g.",
			events, totalTime, rate, 1/rate),
	}
	return result, nil
}

// fitLogNormal describes the uncensored event times with a lognormal
// distribution. The location and scale come from the log durations; the
// natural-scale mean and variance are derived from them. When both arms
// carry enough events, the log time ratio between arms is reported as an
// acceleration term.
func (f *Fitter) fitLogNormal(dataset *domain.Dataset) (*domain.FitResult, error) {
	var logs []float64
	logsByArm := map[int][]float64{}
	for _, obs := range dataset.Observations {
		if !obs.Event {
			continue
		}
		l := math.Log(obs.Duration)
		logs = append(logs, l)
		logsByArm[obs.Arm] = append(logsByArm[obs.Arm], l)
	}

	if len(logs) < 2 {
		return nil, fmt.Errorf("%w: lognormal family needs at least two events", fitting.ErrTooFewEvents)
	}

	mu, sigma := stat.MeanStdDev(logs, nil)
	mean, variance, err := lognorm.Moments(mu, sigma)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fitting.ErrFitFailed, err)
	}

	result := &domain.FitResult{
		LogNormal: &domain.LogNormalSummary{
			Mu:       mu,
			Sigma:    sigma,
			Mean:     mean,
			Variance: variance,
		},
		Events:     len(logs),
		Censored:   len(dataset.Observations) - len(logs),
		SampleSize: len(dataset.Observations),
		Summary: fmt.Sprintf("Lognormal fit on %d events: location %.6g, scale %.6g, natural-scale mean %.6g and variance %.6g.",
			len(logs), mu, sigma, mean, variance),
	}

	control, treatment := logsByArm[0], logsByArm[1]
	if len(control) >= 2 && len(treatment) >= 2 {
		mu0, s0 := stat.MeanStdDev(control, nil)
		mu1, s1 := stat.MeanStdDev(treatment, nil)
		diff := mu1 - mu0
		se := math.Sqrt(s0*s0/float64(len(control)) + s1*s1/float64(len(treatment)))
		result.Terms = []domain.FitTerm{
			{
				Name:        "arm",
				Coefficient: diff,
				StdErr:      se,
			},
		}
		result.Summary += fmt.Sprintf(" Treatment multiplies event times by %.4g.", math.Exp(diff))
	}

	return result, nil
}

// fitPropHazards runs a proportional hazards regression on the treatment
// indicator and any covariates. The estimator is delegated to statmodel.
func (f *Fitter) fitPropHazards(dataset *domain.Dataset) (*domain.FitResult, error) {
	events := dataset.EventCount()
	if events < 2 {
		return nil, fmt.Errorf("%w: proportional hazards family needs at least two events", fitting.ErrTooFewEvents)
	}

	covariates := dataset.CovariateNames()
	xnames := make([]string, 0, len(covariates)+1)
	if bothArmsPresent(dataset) {
		xnames = append(xnames, "arm")
	}
	xnames = append(xnames, covariates...)
	if len(xnames) == 0 {
		return nil, fmt.Errorf("%w: no covariates with variation", fitting.ErrFitFailed)
	}

	data := buildDataset(dataset, covariates)

	model, err := duration.NewPHReg(data, "time", "status", xnames, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fitting.ErrFitFailed, err)
	}

	fit, err := model.Fit()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fitting.ErrFitFailed, err)
	}

	params := fit.Params()
	stderr := fit.StdErr()

	terms := make([]domain.FitTerm, len(xnames))
	for i, name := range xnames {
		terms[i] = domain.FitTerm{
			Name:        name,
			Coefficient: params[i],
			HazardRatio: math.Exp(params[i]),
		}
		if i < len(stderr) {
			terms[i].StdErr = stderr[i]
		}
	}

	return &domain.FitResult{
		Terms:      terms,
		Events:     events,
		Censored:   len(dataset.Observations) - events,
		SampleSize: len(dataset.Observations),
		Summary:    fmt.Sprint(fit.Summary()),
	}, nil
}

// bothArmsPresent reports whether the dataset contains observations from both
// the control and treatment arms.
func bothArmsPresent(dataset *domain.Dataset) bool {
	seen := [2]bool{}
	for _, obs := range dataset.Observations {
		seen[obs.Arm] = true
	}
	return seen[0] && seen[1]
}

// buildDataset converts the domain dataset into the column-oriented layout
// the estimator expects. A missing covariate contributes zero.
func buildDataset(dataset *domain.Dataset, covariates []string) statmodel.Dataset {
	n := len(dataset.Observations)
	names := append([]string{"time", "status", "arm"}, covariates...)

	columns := make([][]float64, len(names))
	for i := range columns {
		columns[i] = make([]float64, n)
	}

	for i, obs := range dataset.Observations {
		columns[0][i] = obs.Duration
		if obs.Event {
			columns[1][i] = 1
		}
		columns[2][i] = float64(obs.Arm)
		for j, name := range covariates {
			columns[3+j][i] = obs.Covariates[name]
		}
	}

	return statmodel.NewDataset(columns, names)
}
