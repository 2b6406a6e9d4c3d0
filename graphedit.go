package graphedit

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/graphedit/core/command"
	"github.com/dmitrymomot/graphedit/core/event"
	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/logger"
	"github.com/dmitrymomot/graphedit/core/reversible"
	"github.com/dmitrymomot/graphedit/core/structure"
)

// Engine is the command engine of one graph document. Construct one per
// document at the application root and pass it to callers.
type Engine struct {
	store      *graph.Store
	registry   *command.Registry
	executor   *command.Executor
	reversible *reversible.Manager
	bus        *event.Bus
	logger     *slog.Logger
}

type options struct {
	logger       *slog.Logger
	bus          *event.Bus
	authorizer   command.Authorizer
	registerer   prometheus.Registerer
	tracer       trace.Tracer
	executorOpts []command.ExecutorOption
	reversibleN  int
	builtins     bool
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger shared by every engine component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEventBus sets the domain event bus. Without it the engine creates one.
func WithEventBus(bus *event.Bus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithAuthorizer plugs an authorizer into the permission middleware.
func WithAuthorizer(fn command.Authorizer) Option {
	return func(o *options) {
		o.authorizer = fn
	}
}

// WithMetrics registers command metrics with reg and records every dispatch.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithTracer starts a span for every dispatched command.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithHistoryLimit sets the size of the command history log.
func WithHistoryLimit(n int) Option {
	return func(o *options) {
		o.executorOpts = append(o.executorOpts, command.WithHistoryLimit(n))
	}
}

// WithUndoLimit sets the depth of both undo stacks.
func WithUndoLimit(n int) Option {
	return func(o *options) {
		o.executorOpts = append(o.executorOpts, command.WithUndoLimit(n))
		o.reversibleN = n
	}
}

// WithRedoLimit sets the depth of the executor redo stack.
func WithRedoLimit(n int) Option {
	return func(o *options) {
		o.executorOpts = append(o.executorOpts, command.WithRedoLimit(n))
	}
}

// WithoutBuiltins skips registering the structure, layout and view commands.
func WithoutBuiltins() Option {
	return func(o *options) {
		o.builtins = false
	}
}

// New creates an engine editing store with the default middleware
// (logging, permission, source tracing) and the built-in commands.
func New(store *graph.Store, opts ...Option) (*Engine, error) {
	o := &options{
		logger:      slog.Default(),
		reversibleN: reversible.DefaultLimit,
		builtins:    true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.bus == nil {
		o.bus = event.NewBus(event.WithLogger(o.logger))
	}

	registry := command.NewRegistry()
	registry.Use(command.DefaultMiddleware(o.logger, o.authorizer)...)
	if o.registerer != nil {
		metrics, err := command.NewMetrics(o.registerer)
		if err != nil {
			return nil, err
		}
		registry.Use(metrics.Middleware())
	}
	if o.tracer != nil {
		registry.Use(command.TracingMiddleware(o.tracer))
	}
	if o.builtins {
		structure.Register(registry, store)
	}

	// Registry commands and reversible commands write to the same store.
	gate := command.NewGate()
	execOpts := append([]command.ExecutorOption{
		command.WithGate(gate),
		command.WithLogger(o.logger),
		command.WithEventBus(o.bus),
	}, o.executorOpts...)

	return &Engine{
		store:    store,
		registry: registry,
		executor: command.NewExecutor(registry, store, execOpts...),
		reversible: reversible.NewManager(
			reversible.WithGate(gate),
			reversible.WithBus(o.bus),
			reversible.WithLogger(o.logger),
			reversible.WithLimit(o.reversibleN),
		),
		bus:    o.bus,
		logger: o.logger.With(logger.Component("engine")),
	}, nil
}

// Store returns the edited graph store.
func (e *Engine) Store() *graph.Store { return e.store }

// Bus returns the domain event bus.
func (e *Engine) Bus() *event.Bus { return e.bus }

// Reversible returns the manager for self-describing commands.
func (e *Engine) Reversible() *reversible.Manager { return e.reversible }

// RegisterCommand binds a handler to a command type, replacing any existing one.
func (e *Engine) RegisterCommand(cmdType string, h command.Handler) {
	e.registry.Register(cmdType, h)
}

// UnregisterCommand removes the handler bound to a command type.
func (e *Engine) UnregisterCommand(cmdType string) {
	e.registry.Unregister(cmdType)
}

// Commands lists the registered command types.
func (e *Engine) Commands() []string {
	return e.registry.Commands()
}

// AddMiddleware appends middleware inside the ones already registered.
func (e *Engine) AddMiddleware(mw ...command.Middleware) {
	e.registry.Use(mw...)
}

// RunCommand dispatches one command. An empty source means SourceUser.
func (e *Engine) RunCommand(ctx context.Context, cmdType string, payload any, source command.Source) command.Result {
	return e.executor.Execute(ctx, cmdType, payload, source)
}

// RunCommands dispatches requests one after another. A failed request is
// logged and does not stop the rest.
func (e *Engine) RunCommands(ctx context.Context, reqs []command.Request) []command.Result {
	results := make([]command.Result, 0, len(reqs))
	for i, req := range reqs {
		res := e.executor.Execute(ctx, req.Type, req.Payload, req.Source)
		if !res.Success {
			e.logger.WarnContext(ctx, "batch command failed",
				logger.CommandType(req.Type),
				logger.Count("index", i),
				slog.String("reason", res.Error))
		}
		results = append(results, res)
	}
	return results
}

// Undo reverses the most recent undoable command.
func (e *Engine) Undo(ctx context.Context) command.Result {
	return e.executor.Undo(ctx)
}

// Redo re-applies the most recently undone command.
func (e *Engine) Redo(ctx context.Context) command.Result {
	return e.executor.Redo(ctx)
}

// UndoRedoState reports undo/redo availability of the command executor.
func (e *Engine) UndoRedoState() command.State {
	return e.executor.State()
}

// ClearUndoRedo empties the executor undo and redo stacks.
func (e *Engine) ClearUndoRedo() {
	e.executor.ClearUndoRedo()
}

// CommandHistory returns a copy of the dispatched commands, oldest first.
func (e *Engine) CommandHistory() []command.Command {
	return e.executor.History()
}
