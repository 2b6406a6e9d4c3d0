package command

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler processes a command and reports its outcome.
// Returning an error fails the command; the executor converts it to a failure Result.
// Expected business failures should be returned as Fail(...) with a nil error.
type Handler func(ctx context.Context, cmd Command) (Result, error)

// Handle adapts a handler with a typed payload into a Handler.
// The payload is accepted as T or *T. JSON-shaped payloads
// (map[string]any, json.RawMessage, []byte) are decoded into T.
//
// Example:
//
//	registry.Register("structure.createNode", command.Handle(func(ctx context.Context, cmd command.Command, p CreateNode) (command.Result, error) {
//	    ...
//	}))
func Handle[T any](fn func(ctx context.Context, cmd Command, payload T) (Result, error)) Handler {
	return func(ctx context.Context, cmd Command) (Result, error) {
		payload, err := decodePayload[T](cmd.Payload)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", cmd.Type, err)
		}
		return fn(ctx, cmd, payload)
	}
}

func decodePayload[T any](raw any) (T, error) {
	var zero T
	switch p := raw.(type) {
	case T:
		return p, nil
	case *T:
		if p == nil {
			return zero, fmt.Errorf("%w: nil %T", ErrInvalidPayload, raw)
		}
		return *p, nil
	case json.RawMessage:
		return unmarshalPayload[T](p)
	case []byte:
		return unmarshalPayload[T](p)
	case map[string]any:
		b, err := json.Marshal(p)
		if err != nil {
			return zero, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		return unmarshalPayload[T](b)
	}
	return zero, fmt.Errorf("%w: expected %T, got %T", ErrInvalidPayload, zero, raw)
}

func unmarshalPayload[T any](b []byte) (T, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return v, nil
}
