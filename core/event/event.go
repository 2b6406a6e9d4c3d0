package event

import (
	"time"

	"github.com/google/uuid"
)

// Wildcard subscribes a listener to every event type.
const Wildcard = "*"

// Event is a domain event describing a completed state transition.
type Event struct {
	ID          string    `json:"id"`           // Unique identifier for the event
	Type        string    `json:"type"`         // Event type, e.g. "node.created"
	AggregateID string    `json:"aggregate_id"` // Entity or command the event is about
	Timestamp   time.Time `json:"timestamp"`    // When the event was created
	Data        any       `json:"data"`         // Event payload
}

// New creates an Event with a generated id and the current timestamp.
//
// Example:
//
//	evt := event.New("node.deleted", "n1", map[string]any{"edges": 2})
func New(eventType, aggregateID string, data any) Event {
	return Event{
		ID:          uuid.New().String(),
		Type:        eventType,
		AggregateID: aggregateID,
		Timestamp:   time.Now(),
		Data:        data,
	}
}
