package event

import (
	"context"
	"time"
)

type eventIDCtx struct{}

// WithEventID attaches an event ID to the context.
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDCtx{}, id)
}

// EventID extracts the event ID from the context.
// Returns empty string if not present.
func EventID(ctx context.Context) string {
	if id, ok := ctx.Value(eventIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type eventTypeCtx struct{}

// WithEventType attaches an event type to the context.
func WithEventType(ctx context.Context, eventType string) context.Context {
	return context.WithValue(ctx, eventTypeCtx{}, eventType)
}

// EventType extracts the event type from the context.
// Returns empty string if not present.
func EventType(ctx context.Context) string {
	if t, ok := ctx.Value(eventTypeCtx{}).(string); ok {
		return t
	}
	return ""
}

type eventTimeCtx struct{}

// WithEventTime attaches the event creation time to the context.
func WithEventTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, eventTimeCtx{}, t)
}

// EventTime extracts the event creation time from the context.
// Returns zero time if not present.
func EventTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(eventTimeCtx{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}

// WithEventMeta attaches all event metadata (ID, Type, Timestamp) to the context.
func WithEventMeta(ctx context.Context, evt Event) context.Context {
	ctx = WithEventID(ctx, evt.ID)
	ctx = WithEventType(ctx, evt.Type)
	ctx = WithEventTime(ctx, evt.Timestamp)
	return ctx
}
