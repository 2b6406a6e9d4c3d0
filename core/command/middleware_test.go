package command_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dmitrymomot/graphedit/core/command"
	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/logger"
)

func newExecutor(registry *command.Registry) *command.Executor {
	return command.NewExecutor(registry, graph.NewMemoryStore(), command.WithLogger(logger.Discard()))
}

func TestMiddleware_OnionOrder(t *testing.T) {
	t.Parallel()

	var trace []string
	named := func(name string) command.Middleware {
		return func(next command.Handler) command.Handler {
			return func(ctx context.Context, cmd command.Command) (command.Result, error) {
				trace = append(trace, name+"-pre")
				res, err := next(ctx, cmd)
				trace = append(trace, name+"-post")
				return res, err
			}
		}
	}

	registry := command.NewRegistry()
	registry.Use(named("M1"))
	registry.Use(named("M2"))
	registry.Register("test.run", func(context.Context, command.Command) (command.Result, error) {
		trace = append(trace, "handler")
		return command.Succeed(nil), nil
	})

	res := newExecutor(registry).Execute(context.Background(), "test.run", nil, "")
	require.True(t, res.Success)
	assert.Equal(t, []string{"M1-pre", "M2-pre", "handler", "M2-post", "M1-post"}, trace)
}

func TestMiddleware_ShortCircuit(t *testing.T) {
	t.Parallel()

	var called bool
	registry := command.NewRegistry()
	registry.Use(func(next command.Handler) command.Handler {
		return func(ctx context.Context, cmd command.Command) (command.Result, error) {
			return command.Fail("blocked"), nil
		}
	})
	registry.Register("test.run", func(context.Context, command.Command) (command.Result, error) {
		called = true
		return command.Succeed(nil), nil
	})

	res := newExecutor(registry).Execute(context.Background(), "test.run", nil, "")
	assert.False(t, res.Success)
	assert.Equal(t, "blocked", res.Error)
	assert.False(t, called)
}

func TestMiddleware_ContextCarriesMeta(t *testing.T) {
	t.Parallel()

	registry := command.NewRegistry()
	var gotID string
	var gotSource command.Source
	registry.Register("test.run", func(ctx context.Context, cmd command.Command) (command.Result, error) {
		gotID = command.CommandID(ctx)
		gotSource = command.SourceFrom(ctx)
		return command.Succeed(cmd.ID), nil
	})

	res := newExecutor(registry).Execute(context.Background(), "test.run", nil, command.SourceWorkflow)
	require.True(t, res.Success)
	assert.Equal(t, res.Data, gotID)
	assert.Equal(t, command.SourceWorkflow, gotSource)
}

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithJSONFormatter(), logger.WithLevel(-4), logger.WithOutput(&buf))

	registry := command.NewRegistry()
	registry.Use(command.LoggingMiddleware(log))
	registry.Register("test.ok", constHandler("ok"))
	registry.Register("test.err", func(context.Context, command.Command) (command.Result, error) {
		return command.Result{}, errors.New("kaboom")
	})

	exec := newExecutor(registry)
	exec.Execute(context.Background(), "test.ok", nil, "")
	exec.Execute(context.Background(), "test.err", nil, "")

	out := buf.String()
	assert.Contains(t, out, `"msg":"command started"`)
	assert.Contains(t, out, `"msg":"command completed"`)
	assert.Contains(t, out, `"msg":"command failed"`)
	assert.Contains(t, out, `"command_type":"test.err"`)
	assert.Contains(t, out, `"result":"success"`)
	assert.Contains(t, out, `"result":"error"`)
	assert.Contains(t, out, "kaboom")
}

func TestPermissionMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("nil authorizer passes through", func(t *testing.T) {
		t.Parallel()

		registry := command.NewRegistry()
		registry.Use(command.PermissionMiddleware(nil))
		registry.Register("test.run", constHandler("ok"))

		res := newExecutor(registry).Execute(context.Background(), "test.run", nil, "")
		assert.True(t, res.Success)
	})

	t.Run("denied", func(t *testing.T) {
		t.Parallel()

		var called bool
		registry := command.NewRegistry()
		registry.Use(command.PermissionMiddleware(func(ctx context.Context, cmd command.Command) error {
			if cmd.Source == command.SourceRemote {
				return errors.New("remote writes disabled")
			}
			return nil
		}))
		registry.Register("test.run", func(context.Context, command.Command) (command.Result, error) {
			called = true
			return command.Succeed(nil), nil
		})

		exec := newExecutor(registry)
		res := exec.Execute(context.Background(), "test.run", nil, command.SourceRemote)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, command.ErrPermissionDenied.Error())
		assert.Contains(t, res.Error, "remote writes disabled")
		assert.False(t, called)

		res = exec.Execute(context.Background(), "test.run", nil, command.SourceUser)
		assert.True(t, res.Success)
		assert.True(t, called)
	})
}

func TestSourceTracingMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))

	registry := command.NewRegistry()
	registry.Use(command.SourceTracingMiddleware(log))
	registry.Register("test.run", constHandler("ok"))

	exec := newExecutor(registry)
	exec.Execute(context.Background(), "test.run", nil, command.SourceUser)
	assert.Zero(t, buf.Len())

	exec.Execute(context.Background(), "test.run", map[string]any{"title": "from model"}, command.SourceAI)
	assert.Equal(t, 1, strings.Count(buf.String(), `"msg":"ai command"`))
	assert.Contains(t, buf.String(), "from model")
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics, err := command.NewMetrics(reg)
	require.NoError(t, err)

	again, err := command.NewMetrics(reg)
	require.NoError(t, err)
	require.NotNil(t, again)

	registry := command.NewRegistry()
	registry.Use(metrics.Middleware())
	registry.Register("test.ok", constHandler("ok"))
	registry.Register("test.reject", func(context.Context, command.Command) (command.Result, error) {
		return command.Fail("no"), nil
	})

	exec := newExecutor(registry)
	exec.Execute(context.Background(), "test.ok", nil, command.SourceUser)
	exec.Execute(context.Background(), "test.ok", nil, command.SourceUser)
	exec.Execute(context.Background(), "test.reject", nil, command.SourceAI)
	exec.Execute(context.Background(), "test.missing", nil, command.SourceUser)

	expected := `
# HELP graphedit_commands_total Dispatched commands by type, source and outcome
# TYPE graphedit_commands_total counter
graphedit_commands_total{source="user",status="success",type="test.ok"} 2
graphedit_commands_total{source="ai",status="failure",type="test.reject"} 1
graphedit_commands_total{source="user",status="error",type="test.missing"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "graphedit_commands_total"))

	count, err := testutil.GatherAndCount(reg, "graphedit_command_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTracingMiddleware(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	registry := command.NewRegistry()
	registry.Use(command.TracingMiddleware(provider.Tracer("graphedit-test")))
	registry.Register("test.ok", constHandler("ok"))
	registry.Register("test.err", func(context.Context, command.Command) (command.Result, error) {
		return command.Result{}, errors.New("boom")
	})

	exec := newExecutor(registry)
	ok := command.New("test.ok", nil, command.SourcePlugin)
	exec.ExecuteCommand(context.Background(), ok)
	exec.Execute(context.Background(), "test.err", nil, "")

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "graphedit.command test.ok", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("command.id", ok.ID))
	assert.Contains(t, spans[0].Attributes(), attribute.String("command.source", "plugin"))

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}
