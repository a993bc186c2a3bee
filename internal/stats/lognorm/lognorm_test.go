package lognorm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoments(t *testing.T) {
	t.Parallel()

	// Closed-form case: mu=6, sigma=1.
	mean, variance, err := Moments(6, 1)
	require.NoError(t, err)

	wantMean := math.Exp(6.5)
	wantVar := math.Exp(13) * (math.E - 1)
	assert.InEpsilon(t, wantMean, mean, 1e-12)
	assert.InEpsilon(t, wantVar, variance, 1e-12)

	// Sanity: exp(6.5) is about 665.14.
	assert.InDelta(t, 665.14, mean, 0.01)
}

func TestMomentsDegenerateSigma(t *testing.T) {
	t.Parallel()

	// sigma = 0 is a point mass at exp(mu).
	mean, variance, err := Moments(2, 0)
	require.NoError(t, err)
	assert.InEpsilon(t, math.Exp(2), mean, 1e-12)
	assert.Zero(t, variance)
}

func TestMomentsRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mu      float64
		sigma   float64
		wantErr error
	}{
		{"negative sigma", 1, -0.5, ErrNegativeSigma},
		{"NaN mu", math.NaN(), 1, ErrNotFinite},
		{"infinite sigma", 0, math.Inf(1), ErrNotFinite},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Moments(tt.mu, tt.sigma)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMomentsRejectsOverflow(t *testing.T) {
	t.Parallel()

	// exp(1000.5) overflows float64, so the mean would be +Inf. The caller
	// must see a domain error, never a non-finite value.
	mean, variance, err := Moments(1000, 1)
	assert.ErrorIs(t, err, ErrNotFinite)
	assert.Zero(t, mean)
	assert.Zero(t, variance)

	// Finite mean but overflowing variance is equally flagged.
	_, _, err = Moments(0, 40)
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestParams(t *testing.T) {
	t.Parallel()

	mu, sigma, err := Params(6, 1.2)
	require.NoError(t, err)

	// Feeding the parameters back through the forward transform must
	// reproduce the original moments.
	mean, variance, err := Moments(mu, sigma)
	require.NoError(t, err)
	assert.InEpsilon(t, 6.0, mean, 1e-9)
	assert.InEpsilon(t, 1.2, variance, 1e-9)
}

func TestParamsZeroVariance(t *testing.T) {
	t.Parallel()

	mu, sigma, err := Params(4.5, 0)
	require.NoError(t, err)
	assert.InEpsilon(t, math.Log(4.5), mu, 1e-12)
	assert.Zero(t, sigma)
}

func TestParamsRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mean     float64
		variance float64
		wantErr  error
	}{
		{"zero mean", 0, 1, ErrNonPositiveMean},
		{"negative mean", -3, 1, ErrNonPositiveMean},
		{"negative variance", 2, -0.1, ErrNegativeVariance},
		{"NaN mean", math.NaN(), 1, ErrNotFinite},
		{"infinite variance", 2, math.Inf(1), ErrNotFinite},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mu, sigma, err := Params(tt.mean, tt.variance)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, mu)
			assert.Zero(t, sigma)
		})
	}
}

func TestParamsRejectsOverflow(t *testing.T) {
	t.Parallel()

	// mean^2 overflows float64 for mean near 1e200, which would silently
	// turn mu into NaN. The caller must see a domain error instead.
	mu, sigma, err := Params(1e200, 0)
	assert.ErrorIs(t, err, ErrNotFinite)
	assert.Zero(t, mu)
	assert.Zero(t, sigma)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	// Params after Moments recovers (mu, sigma) across a range of scales.
	cases := []struct{ mu, sigma float64 }{
		{0, 0},
		{0, 1},
		{6, 1},
		{-2.5, 0.3},
		{3.7, 2.1},
		{10, 0.05},
	}

	for _, c := range cases {
		mean, variance, err := Moments(c.mu, c.sigma)
		require.NoError(t, err)

		mu, sigma, err := Params(mean, variance)
		require.NoError(t, err)

		assert.InDelta(t, c.mu, mu, 1e-9*math.Max(1, math.Abs(c.mu)),
			"mu round trip for mu=%v sigma=%v", c.mu, c.sigma)
		assert.InDelta(t, c.sigma, sigma, 1e-9*math.Max(1, c.sigma),
			"sigma round trip for mu=%v sigma=%v", c.mu, c.sigma)
	}

	// And the reverse direction: Moments after Params recovers the moments.
	reverse := []struct{ mean, variance float64 }{
		{1, 0},
		{6, 1.2},
		{665.14, 1.2e6},
		{0.001, 0.0005},
	}

	for _, c := range reverse {
		mu, sigma, err := Params(c.mean, c.variance)
		require.NoError(t, err)

		mean, variance, err := Moments(mu, sigma)
		require.NoError(t, err)

		assert.InEpsilon(t, c.mean, mean, 1e-9,
			"mean round trip for mean=%v variance=%v", c.mean, c.variance)
		if c.variance == 0 {
			assert.Zero(t, variance)
		} else {
			assert.InEpsilon(t, c.variance, variance, 1e-9,
				"variance round trip for mean=%v variance=%v", c.mean, c.variance)
		}
	}
}
