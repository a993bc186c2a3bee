// Package service contains the application services that coordinate domain
// objects, stores and background tasks. Services own transaction boundaries
// and translate store-level errors into service-level ones.
package service
