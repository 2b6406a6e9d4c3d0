package command

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Registry maps command types to handlers and holds the ordered middleware list.
// Thread-safe.
type Registry struct {
	mu         sync.RWMutex
	handlers   map[string]Handler
	middleware []Middleware
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a command type.
// A handler already bound to the type is replaced without notice.
func (r *Registry) Register(cmdType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[cmdType] = h
}

// Unregister removes the handler bound to a command type.
func (r *Registry) Unregister(cmdType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, cmdType)
}

// Handler returns the handler bound to a command type.
func (r *Registry) Handler(cmdType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[cmdType]
	return h, ok
}

// Commands returns the registered command types in sorted order.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Use appends middleware. The first middleware added is the outermost.
func (r *Registry) Use(mw ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, mw...)
}

// Middleware returns a copy of the ordered middleware list.
func (r *Registry) Middleware() []Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.middleware)
}

// pipeline builds the handler chain for one dispatch.
// The terminal handler resolves the registered handler at call time.
func (r *Registry) pipeline() Handler {
	terminal := func(ctx context.Context, cmd Command) (Result, error) {
		h, ok := r.Handler(cmd.Type)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrHandlerNotFound, cmd.Type)
		}
		return h(ctx, cmd)
	}
	return chainMiddleware(terminal, r.Middleware())
}
