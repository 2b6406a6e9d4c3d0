package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/graphedit/core/changelog"
	"github.com/dmitrymomot/graphedit/core/event"
	"github.com/dmitrymomot/graphedit/core/history"
	"github.com/dmitrymomot/graphedit/core/logger"
)

const (
	DefaultHistoryLimit = 1000
	DefaultUndoLimit    = 100
	DefaultRedoLimit    = 100
)

// Event types published by the executor when a bus is configured.
const (
	EventExecuted = "command.executed"
	EventUndone   = "command.undone"
	EventRedone   = "command.redone"
)

// Executor dispatches commands through the registry pipeline and maintains
// the command history and the change-log based undo/redo stacks.
//
// Execute, Undo and Redo are serialized: one operation runs end to end
// before the next one starts, so undo order always matches completion order.
type Executor struct {
	registry *Registry
	store    changelog.Store
	gate     *Gate

	historyLimit int
	undoLimit    int
	redoLimit    int

	history *history.Log[Command]
	undo    *history.Stack[Entry]
	redo    *history.Stack[Entry]

	logger *slog.Logger
	bus    *event.Bus
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithHistoryLimit sets the maximum number of commands kept in the history log.
func WithHistoryLimit(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}

// WithUndoLimit sets the maximum depth of the undo stack.
func WithUndoLimit(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.undoLimit = n
		}
	}
}

// WithRedoLimit sets the maximum depth of the redo stack.
func WithRedoLimit(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.redoLimit = n
		}
	}
}

// WithLogger sets the executor logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEventBus publishes command.executed, command.undone and command.redone
// events to bus. Listeners run while the executor is busy and must not call
// back into it.
func WithEventBus(bus *event.Bus) ExecutorOption {
	return func(e *Executor) {
		e.bus = bus
	}
}

// WithGate shares gate with other writers of the same store.
// Without it the executor uses a private gate.
func WithGate(gate *Gate) ExecutorOption {
	return func(e *Executor) {
		e.gate = gate
	}
}

// NewExecutor creates an executor dispatching through registry.
// Undo and redo replay change logs against store.
func NewExecutor(registry *Registry, store changelog.Store, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry:     registry,
		store:        store,
		historyLimit: DefaultHistoryLimit,
		undoLimit:    DefaultUndoLimit,
		redoLimit:    DefaultRedoLimit,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.gate == nil {
		e.gate = NewGate()
	}

	e.history = history.NewLog[Command](e.historyLimit)
	e.undo = history.NewStack[Entry](e.undoLimit)
	e.redo = history.NewStack[Entry](e.redoLimit)
	e.logger = e.logger.With(logger.Component("executor"))
	return e
}

// Registry returns the registry the executor dispatches through.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute builds a command and dispatches it. See ExecuteCommand.
func (e *Executor) Execute(ctx context.Context, cmdType string, payload any, source Source) Result {
	return e.ExecuteCommand(ctx, New(cmdType, payload, source))
}

// ExecuteCommand records cmd in the history log and runs it through the
// middleware chain to its handler. Errors and panics become failure results.
// A successful result with changes is pushed onto the undo stack and clears
// the redo stack.
func (e *Executor) ExecuteCommand(ctx context.Context, cmd Command) Result {
	if err := e.acquire(ctx); err != nil {
		return failure(err)
	}
	defer e.release()

	e.history.Append(cmd)

	ctx = WithCommandMeta(ctx, cmd)
	res, err := safeHandle(e.registry.pipeline(), ctx, cmd)
	if err != nil {
		e.logger.ErrorContext(ctx, "command error",
			logger.CommandType(cmd.Type),
			logger.CommandID(cmd.ID),
			logger.Error(err))
		return failure(err)
	}

	if res.Success && len(res.Changes) > 0 {
		if evicted, ok := e.undo.Push(Entry{Command: cmd, Result: res, Timestamp: time.Now()}); ok {
			e.logger.DebugContext(ctx, "undo entry evicted",
				logger.CommandType(evicted.Command.Type),
				logger.CommandID(evicted.Command.ID))
		}
		e.redo.Clear()
	}

	if res.Success {
		e.publish(ctx, EventExecuted, cmd, res)
	}
	return res
}

// Undo reverses the most recent undoable command.
// On a reversal failure the entry stays on the undo stack.
func (e *Executor) Undo(ctx context.Context) Result {
	if err := e.acquire(ctx); err != nil {
		return failure(err)
	}
	defer e.release()

	entry, ok := e.undo.Peek()
	if !ok {
		return failure(ErrNothingToUndo)
	}
	if len(entry.Result.Changes) == 0 {
		return Fail("%s: %s", ErrNoChanges, entry.Command.Type)
	}
	entry, _ = e.undo.Pop()

	if err := changelog.Reverse(ctx, e.store, entry.Result.Changes); err != nil {
		e.undo.Push(entry)
		e.logger.ErrorContext(ctx, "undo failed",
			logger.CommandType(entry.Command.Type),
			logger.CommandID(entry.Command.ID),
			logger.Error(err))
		return failure(fmt.Errorf("undo %s: %w", entry.Command.Type, err))
	}

	e.redo.Push(entry)
	e.publish(ctx, EventUndone, entry.Command, entry.Result)
	return Succeed(entry.Command)
}

// Redo re-applies the most recently undone command.
// On a failure the entry stays on the redo stack.
func (e *Executor) Redo(ctx context.Context) Result {
	if err := e.acquire(ctx); err != nil {
		return failure(err)
	}
	defer e.release()

	entry, ok := e.redo.Peek()
	if !ok {
		return failure(ErrNothingToRedo)
	}
	if len(entry.Result.Changes) == 0 {
		return Fail("%s: %s", ErrNoChanges, entry.Command.Type)
	}
	entry, _ = e.redo.Pop()

	if err := changelog.Apply(ctx, e.store, entry.Result.Changes); err != nil {
		e.redo.Push(entry)
		e.logger.ErrorContext(ctx, "redo failed",
			logger.CommandType(entry.Command.Type),
			logger.CommandID(entry.Command.ID),
			logger.Error(err))
		return failure(fmt.Errorf("redo %s: %w", entry.Command.Type, err))
	}

	e.undo.Push(entry)
	e.publish(ctx, EventRedone, entry.Command, entry.Result)
	return Succeed(entry.Command)
}

// State reports undo/redo availability.
func (e *Executor) State() State {
	u, r := e.undo.Len(), e.redo.Len()
	return State{CanUndo: u > 0, CanRedo: r > 0, UndoCount: u, RedoCount: r}
}

// ClearUndoRedo empties both stacks. The history log is kept.
func (e *Executor) ClearUndoRedo() {
	e.undo.Clear()
	e.redo.Clear()
}

// History returns a copy of the dispatched commands, oldest first.
func (e *Executor) History() []Command {
	return e.history.Items()
}

func (e *Executor) acquire(ctx context.Context) error {
	return e.gate.Acquire(ctx)
}

func (e *Executor) release() {
	e.gate.Release()
}

func (e *Executor) publish(ctx context.Context, eventType string, cmd Command, res Result) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(ctx, event.New(eventType, cmd.ID, Entry{Command: cmd, Result: res, Timestamp: time.Now()}))
}
