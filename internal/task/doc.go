// Package task implements background processing for long-running work,
// chiefly fitting survival models to uploaded datasets. Tasks are persisted
// before execution so a crashed process can recover and resume them.
package task
