// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these shared
// implementations keep mock behavior consistent across test packages. Each
// mock exposes function fields so a test can override exactly the methods
// it cares about.
package mocks
