package command

import (
	"context"
	"time"
)

type commandIDCtx struct{}

// WithCommandID attaches a command ID to the context for tracing and correlation.
func WithCommandID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, commandIDCtx{}, id)
}

// CommandID extracts the command ID from the context.
// Returns empty string if not present.
func CommandID(ctx context.Context) string {
	if id, ok := ctx.Value(commandIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type commandTypeCtx struct{}

// WithCommandType attaches a command type to the context for logging and metrics.
func WithCommandType(ctx context.Context, cmdType string) context.Context {
	return context.WithValue(ctx, commandTypeCtx{}, cmdType)
}

// CommandType extracts the command type from the context.
// Returns empty string if not present.
func CommandType(ctx context.Context) string {
	if t, ok := ctx.Value(commandTypeCtx{}).(string); ok {
		return t
	}
	return ""
}

type commandSourceCtx struct{}

// WithSource attaches the command source to the context.
func WithSource(ctx context.Context, src Source) context.Context {
	return context.WithValue(ctx, commandSourceCtx{}, src)
}

// SourceFrom extracts the command source from the context.
// Returns empty Source if not present.
func SourceFrom(ctx context.Context) Source {
	if src, ok := ctx.Value(commandSourceCtx{}).(Source); ok {
		return src
	}
	return ""
}

type commandTimeCtx struct{}

// WithCommandTime attaches the command creation time to the context for latency tracking.
func WithCommandTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, commandTimeCtx{}, t)
}

// CommandTime extracts the command creation time from the context.
// Returns zero time if not present.
func CommandTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(commandTimeCtx{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}

// WithCommandMeta attaches all command metadata (ID, Type, Source, Timestamp) to the context.
func WithCommandMeta(ctx context.Context, cmd Command) context.Context {
	ctx = WithCommandID(ctx, cmd.ID)
	ctx = WithCommandType(ctx, cmd.Type)
	ctx = WithSource(ctx, cmd.Source)
	ctx = WithCommandTime(ctx, cmd.Timestamp)
	return ctx
}
