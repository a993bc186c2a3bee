package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskRequestEvent asks for a background task to be created. The payload is
// opaque JSON so the emitter needs no knowledge of the task's input types.
type TaskRequestEvent struct {
	// ID uniquely identifies this event for log correlation.
	ID uuid.UUID `json:"id"`

	// Type names the kind of task being requested.
	Type string `json:"type"`

	// Payload carries the task-specific input serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt records when the event was emitted.
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *TaskRequestEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewTaskRequestEvent builds a TaskRequestEvent of the given type, serializing
// payload to JSON.
func NewTaskRequestEvent(eventType string, payload any) (*TaskRequestEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &TaskRequestEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler processes emitted events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskRequestEvent) error
}

// EventEmitter publishes events to registered handlers.
type EventEmitter interface {
	// EmitEvent delivers the event to every registered handler.
	EmitEvent(ctx context.Context, event *TaskRequestEvent) error

	// RegisterHandler adds a handler that will receive future events.
	RegisterHandler(handler EventHandler)
}
