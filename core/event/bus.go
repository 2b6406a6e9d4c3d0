package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/graphedit/core/logger"
)

type subscription struct {
	id       uint64
	listener Listener
}

// Bus is a synchronous publish/subscribe hub for domain events.
// Thread-safe. Listeners are called in the publisher's goroutine.
type Bus struct {
	mu           sync.RWMutex
	listeners    map[string][]subscription
	seq          uint64
	logger       *slog.Logger
	errorHandler func(context.Context, Event, error)
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used to report listener failures.
// If not set, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithErrorHandler sets a callback invoked for every failed listener,
// after the failure has been logged.
//
// Example:
//
//	bus := event.NewBus(event.WithErrorHandler(func(ctx context.Context, evt event.Event, err error) {
//	    failures.Add(1)
//	}))
func WithErrorHandler(fn func(context.Context, Event, error)) Option {
	return func(b *Bus) {
		b.errorHandler = fn
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		listeners: make(map[string][]subscription),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// On registers a listener for eventType (or Wildcard) and returns a function
// that removes it. Calling the returned function more than once is a no-op.
// Panics if l is nil.
func (b *Bus) On(eventType string, l Listener) (unsubscribe func()) {
	if l == nil {
		panic(ErrNilListener)
	}

	b.mu.Lock()
	b.seq++
	id := b.seq
	b.listeners[eventType] = append(b.listeners[eventType], subscription{id: id, listener: l})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(eventType, id) })
	}
}

// Once registers a listener that is removed right before its first call.
func (b *Bus) Once(eventType string, l Listener) (unsubscribe func()) {
	if l == nil {
		panic(ErrNilListener)
	}

	var (
		fired sync.Once
		unsub func()
	)
	ready := make(chan struct{})
	unsub = b.On(eventType, func(ctx context.Context, evt Event) error {
		<-ready
		var (
			err  error
			call bool
		)
		fired.Do(func() {
			unsub()
			call = true
		})
		if call {
			err = l(ctx, evt)
		}
		return err
	})
	close(ready)
	return unsub
}

// Off removes every listener registered for eventType, including those
// added by other callers. To remove a single listener call the function
// returned by On or Once.
func (b *Bus) Off(eventType string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, eventType)
}

// ListenerCount returns the number of listeners registered for eventType.
func (b *Bus) ListenerCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[eventType])
}

// Publish delivers each event to the listeners of its type, then to the
// wildcard listeners. Listener failures are logged and isolated.
func (b *Bus) Publish(ctx context.Context, events ...Event) {
	for _, evt := range events {
		b.deliver(ctx, evt)
	}
}

func (b *Bus) deliver(ctx context.Context, evt Event) {
	subs := b.snapshot(evt.Type)
	if len(subs) == 0 {
		return
	}

	ctx = WithEventMeta(ctx, evt)
	for _, sub := range subs {
		if err := safeCall(sub.listener, ctx, evt); err != nil {
			b.logger.ErrorContext(ctx, "event listener failed",
				logger.Event(evt.Type),
				slog.String("event_id", evt.ID),
				slog.String("aggregate_id", evt.AggregateID),
				logger.Error(err))
			if b.errorHandler != nil {
				b.errorHandler(ctx, evt, err)
			}
		}
	}
}

// snapshot copies the listeners to call so they run without holding the lock;
// listeners may subscribe or unsubscribe while being called.
func (b *Bus) snapshot(eventType string) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.listeners[eventType]
	var wild []subscription
	if eventType != Wildcard {
		wild = b.listeners[Wildcard]
	}
	out := make([]subscription, 0, len(typed)+len(wild))
	out = append(out, typed...)
	out = append(out, wild...)
	return out
}

func (b *Bus) remove(eventType string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.listeners[eventType]
	for i, s := range subs {
		if s.id == id {
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.listeners, eventType)
			} else {
				b.listeners[eventType] = next
			}
			return
		}
	}
}
