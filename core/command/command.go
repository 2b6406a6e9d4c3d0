package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/graphedit/core/graph"
)

// Source tags where a command originated.
type Source string

const (
	SourceUser     Source = "user"
	SourceAI       Source = "ai"
	SourcePlugin   Source = "plugin"
	SourceWorkflow Source = "workflow"
	SourceRemote   Source = "remote"
)

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceUser, SourceAI, SourcePlugin, SourceWorkflow, SourceRemote:
		return true
	}
	return false
}

// Command is a typed intent to mutate graph state. Immutable once created.
type Command struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
}

// New creates a Command with a generated ID and the current timestamp.
// An empty source defaults to SourceUser.
//
// Example:
//
//	cmd := command.New("structure.createNode", structure.CreateNode{Title: "Idea"}, command.SourceAI)
func New(cmdType string, payload any, source Source) Command {
	if source == "" {
		source = SourceUser
	}
	return Command{
		ID:        uuid.New().String(),
		Type:      cmdType,
		Payload:   payload,
		Timestamp: time.Now(),
		Source:    source,
	}
}

// Result is the outcome of a dispatched command.
// Changes lists the entity changes in the order the handler made them.
type Result struct {
	Success bool                 `json:"success"`
	Data    any                  `json:"data,omitempty"`
	Error   string               `json:"error,omitempty"`
	Changes []graph.EntityChange `json:"changes,omitempty"`
}

// Succeed builds a successful result.
func Succeed(data any, changes ...graph.EntityChange) Result {
	return Result{Success: true, Data: data, Changes: changes}
}

// Fail builds a failure result with a formatted, human-readable message.
// Handlers return it for validation failures instead of an error.
func Fail(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// failure converts an error into a failure result.
func failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

// Request is a command submission awaiting dispatch.
type Request struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
	Source  Source `json:"source,omitempty"`
}

// Entry is the unit kept on the undo and redo stacks.
type Entry struct {
	Command   Command   `json:"command"`
	Result    Result    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// State reports undo/redo availability.
type State struct {
	CanUndo   bool `json:"can_undo"`
	CanRedo   bool `json:"can_redo"`
	UndoCount int  `json:"undo_count"`
	RedoCount int  `json:"redo_count"`
}
