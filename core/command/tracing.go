package command

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware starts a span per command.
//
// Example:
//
//	registry.Use(command.TracingMiddleware(otel.Tracer("graphedit")))
func TracingMiddleware(tracer trace.Tracer) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, cmd Command) (Result, error) {
			ctx, span := tracer.Start(ctx, "graphedit.command "+cmd.Type,
				trace.WithAttributes(
					attribute.String("command.id", cmd.ID),
					attribute.String("command.type", cmd.Type),
					attribute.String("command.source", string(cmd.Source)),
				),
			)
			defer span.End()

			res, err := next(ctx, cmd)
			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case !res.Success:
				span.SetStatus(codes.Error, res.Error)
			default:
				span.SetAttributes(attribute.Int("command.changes", len(res.Changes)))
				span.SetStatus(codes.Ok, "")
			}
			return res, err
		}
	}
}
