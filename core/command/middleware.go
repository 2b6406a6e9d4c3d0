package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/graphedit/core/logger"
)

// Middleware wraps a Handler to add cross-cutting functionality.
// A middleware either calls next or returns its own result to short-circuit.
// Errors must be propagated, not swallowed.
type Middleware func(next Handler) Handler

// LoggingMiddleware logs command start, elapsed time and failures.
//
// Example:
//
//	registry.Use(command.LoggingMiddleware(logger))
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command) (Result, error) {
			start := time.Now()
			attrs := []any{
				logger.CommandType(cmd.Type),
				logger.CommandID(cmd.ID),
				logger.Source(string(cmd.Source)),
			}

			log.DebugContext(ctx, "command started", attrs...)

			res, err := next(ctx, cmd)
			if err != nil {
				log.ErrorContext(ctx, "command failed", append(attrs, logger.Result("error"), logger.Elapsed(start), logger.Error(err))...)
				return res, err
			}
			if !res.Success {
				log.WarnContext(ctx, "command rejected", append(attrs, logger.Result("rejected"), logger.Elapsed(start), slog.String("reason", res.Error))...)
				return res, nil
			}

			log.InfoContext(ctx, "command completed", append(attrs, logger.Result("success"), logger.Elapsed(start), logger.Changes(len(res.Changes)))...)
			return res, nil
		}
	}
}

// Authorizer decides whether a command may run. A non-nil error denies it.
type Authorizer func(ctx context.Context, cmd Command) error

// PermissionMiddleware rejects commands the authorizer denies.
// A nil authorizer lets every command through.
func PermissionMiddleware(authorize Authorizer) Middleware {
	return func(next Handler) Handler {
		if authorize == nil {
			return next
		}
		return func(ctx context.Context, cmd Command) (Result, error) {
			if err := authorize(ctx, cmd); err != nil {
				return Fail("%s: %s: %v", ErrPermissionDenied, cmd.Type, err), nil
			}
			return next(ctx, cmd)
		}
	}
}

// SourceTracingMiddleware logs commands issued by the AI source.
func SourceTracingMiddleware(log *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command) (Result, error) {
			if cmd.Source == SourceAI {
				log.InfoContext(ctx, "ai command",
					logger.CommandType(cmd.Type),
					logger.CommandID(cmd.ID),
					slog.Any("payload", cmd.Payload))
			}
			return next(ctx, cmd)
		}
	}
}

// DefaultMiddleware returns logging, permission and source tracing in that order.
func DefaultMiddleware(log *slog.Logger, authorize Authorizer) []Middleware {
	return []Middleware{
		LoggingMiddleware(log),
		PermissionMiddleware(authorize),
		SourceTracingMiddleware(log),
	}
}
