// Package simulate draws illustrative two-arm duration data under an
// accelerated failure time effect. It exists for sample-size and effect-size
// illustrations: the control arm is described by the directly interpretable
// natural-scale mean and variance of the event time, the treatment arm is
// the same distribution with the time axis rescaled by an acceleration
// factor, and both arms are administratively censored at a horizon.
package simulate

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lburgess/aftlab/internal/stats/lognorm"
)

// MaxPerArm bounds the per-arm sample size. Each arm allocates and sorts a
// slice of this length inside the request path, so the cap keeps a single
// request from exhausting memory.
const MaxPerArm = 100000

// Validation errors for simulation requests.
var (
	ErrSampleSizeTooSmall   = errors.New("per-arm sample size must be at least 2")
	ErrSampleSizeTooLarge   = fmt.Errorf("per-arm sample size must be at most %d", MaxPerArm)
	ErrInvalidAcceleration  = errors.New("acceleration factor must be positive")
	ErrInvalidHorizon       = errors.New("censoring horizon must be positive")
	ErrInvalidControlMoment = errors.New("invalid control-arm moments")
)

// Request describes a two-arm lognormal AFT simulation.
type Request struct {
	// ControlMean and ControlVariance are the natural-scale moments of the
	// control-arm event-time distribution.
	ControlMean     float64
	ControlVariance float64

	// Acceleration multiplies treatment-arm event times. Values above 1
	// lengthen survival, values below 1 shorten it.
	Acceleration float64

	// PerArm is the number of subjects drawn in each arm, between 2 and
	// MaxPerArm.
	PerArm int

	// Horizon is the administrative censoring time: observations beyond it
	// are censored at the horizon.
	Horizon float64

	// Seed fixes the random source so a request is reproducible.
	Seed uint64
}

// ArmSummary describes the observed (possibly censored) durations in one arm.
type ArmSummary struct {
	Name     string  `json:"name"`
	N        int     `json:"n"`
	Events   int     `json:"events"`
	Censored int     `json:"censored"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
}

// Result holds both arm summaries plus the location/scale parameters the
// draws were generated from.
type Result struct {
	Control   ArmSummary `json:"control"`
	Treatment ArmSummary `json:"treatment"`
	Mu        float64    `json:"mu"`
	Sigma     float64    `json:"sigma"`
}

// Validate checks the request preconditions.
func (r Request) Validate() error {
	if r.PerArm < 2 {
		return fmt.Errorf("%w: got %d", ErrSampleSizeTooSmall, r.PerArm)
	}
	if r.PerArm > MaxPerArm {
		return fmt.Errorf("%w: got %d", ErrSampleSizeTooLarge, r.PerArm)
	}
	if r.Acceleration <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidAcceleration, r.Acceleration)
	}
	if r.Horizon <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidHorizon, r.Horizon)
	}
	return nil
}

// Run draws both arms and summarizes the observed durations.
// The control arm's moments are converted to (mu, sigma) through the
// lognorm package; an invalid pair surfaces as ErrInvalidControlMoment.
func Run(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	mu, sigma, err := lognorm.Params(req.ControlMean, req.ControlVariance)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidControlMoment, err)
	}

	src := rand.NewSource(req.Seed)
	dist := distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}

	control := drawArm("control", dist, 1, req.PerArm, req.Horizon)
	treatment := drawArm("treatment", dist, req.Acceleration, req.PerArm, req.Horizon)

	return &Result{
		Control:   control,
		Treatment: treatment,
		Mu:        mu,
		Sigma:     sigma,
	}, nil
}

// drawArm samples event times, rescales them by the acceleration factor,
// applies administrative censoring and summarizes the observed times.
func drawArm(name string, dist distuv.LogNormal, accel float64, n int, horizon float64) ArmSummary {
	observed := make([]float64, n)
	events := 0
	for i := range observed {
		t := dist.Rand() * accel
		if t > horizon {
			observed[i] = horizon
		} else {
			observed[i] = t
			events++
		}
	}

	sort.Float64s(observed)
	return ArmSummary{
		Name:     name,
		N:        n,
		Events:   events,
		Censored: n - events,
		Mean:     stat.Mean(observed, nil),
		Median:   stat.Quantile(0.5, stat.Empirical, observed, nil),
		Q1:       stat.Quantile(0.25, stat.Empirical, observed, nil),
		Q3:       stat.Quantile(0.75, stat.Empirical, observed, nil),
	}
}
