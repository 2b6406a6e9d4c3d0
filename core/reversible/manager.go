package reversible

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/graphedit/core/command"
	"github.com/dmitrymomot/graphedit/core/event"
	"github.com/dmitrymomot/graphedit/core/history"
	"github.com/dmitrymomot/graphedit/core/logger"
)

// DefaultLimit is the default depth of the undo and redo stacks.
const DefaultLimit = 100

// Manager executes reversible commands and keeps their undo/redo stacks.
type Manager struct {
	gate   *command.Gate
	limit  int
	undo   *history.Stack[Command]
	redo   *history.Stack[Command]
	bus    *event.Bus
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLimit sets the depth of both stacks.
func WithLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// WithBus sets the bus domain events are published to.
// Without it the manager creates its own.
func WithBus(bus *event.Bus) Option {
	return func(m *Manager) {
		if bus != nil {
			m.bus = bus
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithGate shares gate with other writers of the same store,
// typically the command executor.
func WithGate(gate *command.Gate) Option {
	return func(m *Manager) {
		m.gate = gate
	}
}

// NewManager creates a manager with empty stacks.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		limit:  DefaultLimit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.gate == nil {
		m.gate = command.NewGate()
	}
	if m.bus == nil {
		m.bus = event.NewBus(event.WithLogger(m.logger))
	}
	m.undo = history.NewStack[Command](m.limit)
	m.redo = history.NewStack[Command](m.limit)
	m.logger = m.logger.With(logger.Component("reversible"))
	return m
}

// Bus returns the bus events are published to.
func (m *Manager) Bus() *event.Bus {
	return m.bus
}

// Execute captures undo data, runs cmd and publishes its events.
// On success cmd becomes undoable and the redo stack is cleared.
func (m *Manager) Execute(ctx context.Context, cmd Command) (Result, error) {
	if cmd == nil {
		return Result{}, ErrNilCommand
	}
	if err := m.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer m.release()

	res, err := m.apply(ctx, cmd)
	if err != nil {
		return Result{}, err
	}

	m.undo.Push(cmd)
	m.redo.Clear()
	m.bus.Publish(ctx, res.Events...)
	return res, nil
}

// Undo reverses the most recent command and returns it.
func (m *Manager) Undo(ctx context.Context) (Command, error) {
	if err := m.acquire(ctx); err != nil {
		return nil, err
	}
	defer m.release()

	cmd, ok := m.undo.Pop()
	if !ok {
		return nil, ErrNothingToUndo
	}

	meta := cmd.Meta()
	if err := safely(meta, func() error { return cmd.Undo(ctx) }); err != nil {
		m.undo.Push(cmd)
		m.logger.ErrorContext(ctx, "undo failed",
			logger.CommandType(meta.Type),
			logger.CommandID(meta.ID),
			logger.Error(err))
		return nil, fmt.Errorf("undo %s: %w", meta.Type, err)
	}

	m.redo.Push(cmd)
	m.bus.Publish(ctx, undoEvents(cmd)...)
	return cmd, nil
}

// Redo re-applies the most recently undone command.
func (m *Manager) Redo(ctx context.Context) (Result, error) {
	if err := m.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer m.release()

	cmd, ok := m.redo.Pop()
	if !ok {
		return Result{}, ErrNothingToRedo
	}

	res, err := m.apply(ctx, cmd)
	if err != nil {
		m.redo.Push(cmd)
		return Result{}, err
	}

	m.undo.Push(cmd)
	m.bus.Publish(ctx, res.Events...)
	return res, nil
}

// State reports undo/redo availability.
func (m *Manager) State() command.State {
	u, r := m.undo.Len(), m.redo.Len()
	return command.State{CanUndo: u > 0, CanRedo: r > 0, UndoCount: u, RedoCount: r}
}

// Clear empties both stacks.
func (m *Manager) Clear() {
	m.undo.Clear()
	m.redo.Clear()
}

func (m *Manager) apply(ctx context.Context, cmd Command) (Result, error) {
	meta := cmd.Meta()
	log := m.logger.With(logger.CommandType(meta.Type), logger.CommandID(meta.ID))

	if err := safely(meta, func() error { return cmd.CaptureUndoData(ctx) }); err != nil {
		log.WarnContext(ctx, "capture undo data failed", logger.Error(err))
		return Result{}, fmt.Errorf("capture %s: %w", meta.Type, err)
	}

	var res Result
	err := safely(meta, func() error {
		var err error
		res, err = cmd.Execute(ctx)
		return err
	})
	if err != nil {
		log.WarnContext(ctx, "command failed", logger.Error(err))
		return Result{}, fmt.Errorf("execute %s: %w", meta.Type, err)
	}

	log.DebugContext(ctx, "command executed", logger.Count("events", len(res.Events)))
	return res, nil
}

func (m *Manager) acquire(ctx context.Context) error {
	return m.gate.Acquire(ctx)
}

func (m *Manager) release() {
	m.gate.Release()
}

func undoEvents(cmd Command) []event.Event {
	if ue, ok := cmd.(UndoEventer); ok {
		return ue.UndoEvents()
	}
	meta := cmd.Meta()
	return []event.Event{event.New(meta.Type+".undone", meta.ID, meta)}
}

func safely(meta Meta, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrCommandPanicked, meta.Type, r)
		}
	}()
	return fn()
}
