package event

import "errors"

var (
	// ErrListenerPanicked wraps a panic recovered from a listener.
	ErrListenerPanicked = errors.New("event listener panicked")

	// ErrNilListener is the panic value used when registering a nil listener.
	ErrNilListener = errors.New("event listener is nil")
)
