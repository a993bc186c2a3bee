// Package statfit implements the fitting.Fitter interface on top of the
// statmodel estimation library. It converts domain datasets into the
// column-oriented layout the estimator expects, runs the requested model
// family, and translates the raw estimates back into domain fit results.
package statfit
