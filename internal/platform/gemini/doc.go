// Package gemini implements the interpret.Interpreter interface using
// Google's Gemini API. It renders a prompt describing a completed model fit,
// calls the API with retry and backoff, and returns the model's prose
// reading of the results.
package gemini
