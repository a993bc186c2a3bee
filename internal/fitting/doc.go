// Package fitting defines the boundary between the application core and the
// statistical estimation machinery. The Fitter interface hides the estimator
// behind a small surface so services and tasks never touch numerical code
// directly.
package fitting
