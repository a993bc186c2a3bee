// Package events decouples the services that request background work from
// the task machinery that performs it. A service emits a TaskRequestEvent
// describing what should happen; registered handlers turn the event into a
// concrete task. Neither side imports the other.
package events
