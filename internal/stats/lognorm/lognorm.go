// Package lognorm converts between the two standard parameterizations of the
// lognormal distribution: the natural-scale moments (mean, variance) of the
// distributed quantity itself, and the location/scale parameters (mu, sigma)
// of the underlying normal distribution, which is what random-number
// generators and density functions expect.
package lognorm

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors returned when inputs violate the mathematical preconditions.
// Callers get a labeled failure instead of a silent NaN.
var (
	// ErrNonPositiveMean is returned when a natural-scale mean is zero or
	// negative. The lognormal distribution is supported on positive reals,
	// so its mean must be strictly positive.
	ErrNonPositiveMean = errors.New("lognormal mean must be positive")

	// ErrNegativeVariance is returned when a natural-scale variance is negative.
	ErrNegativeVariance = errors.New("lognormal variance cannot be negative")

	// ErrNegativeSigma is returned when a scale parameter is negative.
	ErrNegativeSigma = errors.New("lognormal sigma cannot be negative")

	// ErrNotFinite is returned when an input or an intermediate value is
	// NaN or infinite.
	ErrNotFinite = errors.New("value is not finite")
)

// Moments computes the natural-scale mean and variance of a lognormal
// distribution from its location (mu) and scale (sigma) parameters.
//
//	mean     = exp(mu + sigma^2/2)
//	variance = exp(2*mu + sigma^2) * (exp(sigma^2) - 1)
//
// Returns ErrNegativeSigma if sigma < 0 and ErrNotFinite for non-finite
// inputs or when the moments overflow.
func Moments(mu, sigma float64) (mean, variance float64, err error) {
	if !isFinite(mu) || !isFinite(sigma) {
		return 0, 0, fmt.Errorf("%w: mu=%v sigma=%v", ErrNotFinite, mu, sigma)
	}
	if sigma < 0 {
		return 0, 0, fmt.Errorf("%w: got %v", ErrNegativeSigma, sigma)
	}

	s2 := sigma * sigma
	mean = math.Exp(mu + s2/2)
	variance = math.Exp(2*mu+s2) * math.Expm1(s2)
	if !isFinite(mean) || !isFinite(variance) {
		return 0, 0, fmt.Errorf("%w: moments overflow for mu=%v sigma=%v", ErrNotFinite, mu, sigma)
	}
	return mean, variance, nil
}

// Params computes the location (mu) and scale (sigma) parameters of a
// lognormal distribution from its natural-scale mean and variance.
//
//	mu    = ln(mean^2 / sqrt(variance + mean^2))
//	sigma = sqrt(ln(variance/mean^2 + 1))
//
// It is the exact inverse of Moments over the valid domain. Returns
// ErrNonPositiveMean if mean <= 0, ErrNegativeVariance if variance < 0,
// and ErrNotFinite for non-finite inputs or overflowing parameters.
// variance = 0 degenerates to a point mass: sigma = 0 and mu = ln(mean).
func Params(mean, variance float64) (mu, sigma float64, err error) {
	if !isFinite(mean) || !isFinite(variance) {
		return 0, 0, fmt.Errorf("%w: mean=%v variance=%v", ErrNotFinite, mean, variance)
	}
	if mean <= 0 {
		return 0, 0, fmt.Errorf("%w: got %v", ErrNonPositiveMean, mean)
	}
	if variance < 0 {
		return 0, 0, fmt.Errorf("%w: got %v", ErrNegativeVariance, variance)
	}

	m2 := mean * mean
	mu = math.Log(m2 / math.Sqrt(variance+m2))
	sigma = math.Sqrt(math.Log1p(variance / m2))
	if !isFinite(mu) || !isFinite(sigma) {
		return 0, 0, fmt.Errorf("%w: parameters overflow for mean=%v variance=%v", ErrNotFinite, mean, variance)
	}
	return mu, sigma, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
