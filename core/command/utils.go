package command

import (
	"context"
	"fmt"
)

// chainMiddleware applies multiple middleware in order.
// The first middleware in the slice is the outermost (executed first).
func chainMiddleware(handler Handler, middleware []Middleware) Handler {
	// Reverse order required: wrapping innermost first makes it execute last
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

// safeHandle executes a handler with panic recovery.
// If the handler panics, the panic is caught and converted to an error.
func safeHandle(handler Handler, ctx context.Context, cmd Command) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanicked, cmd.Type, r)
		}
	}()
	return handler(ctx, cmd)
}
