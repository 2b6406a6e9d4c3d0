package reversible

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/graphedit/core/event"
)

// Meta identifies a command instance.
type Meta struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Command performs and reverses its own effect.
type Command interface {
	Meta() Meta

	// CaptureUndoData snapshots whatever Undo needs. Called right before Execute.
	CaptureUndoData(ctx context.Context) error

	// Execute applies the command and reports the domain events it caused.
	Execute(ctx context.Context) (Result, error)

	// Undo reverses the last Execute using the captured data.
	Undo(ctx context.Context) error
}

// UndoEventer is implemented by commands that report their own events on undo.
// Commands without it produce a single "<type>.undone" event.
type UndoEventer interface {
	UndoEvents() []event.Event
}

// Result is what a command reports after executing.
type Result struct {
	Data   any           `json:"data,omitempty"`
	Events []event.Event `json:"events,omitempty"`
}

// Base carries command metadata. Embed it to implement Meta.
type Base struct {
	meta Meta
}

// NewBase creates metadata with a generated ID and the current timestamp.
func NewBase(cmdType string) Base {
	return Base{meta: Meta{
		ID:        uuid.New().String(),
		Type:      cmdType,
		Timestamp: time.Now(),
	}}
}

// Meta returns the command metadata.
func (b Base) Meta() Meta {
	return b.meta
}
