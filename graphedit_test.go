package graphedit_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/graphedit"
	"github.com/dmitrymomot/graphedit/core/changelog"
	"github.com/dmitrymomot/graphedit/core/command"
	"github.com/dmitrymomot/graphedit/core/event"
	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/logger"
	"github.com/dmitrymomot/graphedit/core/structure"
)

func newEngine(t *testing.T, opts ...graphedit.Option) *graphedit.Engine {
	t.Helper()

	opts = append([]graphedit.Option{graphedit.WithLogger(logger.Discard())}, opts...)
	engine, err := graphedit.New(graph.NewMemoryStore(), opts...)
	require.NoError(t, err)
	return engine
}

func TestEngine_Builtins(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	assert.Subset(t, engine.Commands(), []string{
		structure.TypeCreateNode,
		structure.TypeUpdateNode,
		structure.TypeDeleteNode,
		structure.TypeCreateEdge,
		structure.TypeDeleteEdge,
		structure.TypeCreateBlock,
		structure.TypeUpdateNodePosition,
		structure.TypeUpdateView,
	})

	bare := newEngine(t, graphedit.WithoutBuiltins())
	assert.Empty(t, bare.Commands())
}

func TestEngine_CustomCounter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := newEngine(t)
	store := engine.Store()
	require.NoError(t, store.AddNode(ctx, graph.Node{ID: "n1", Data: map[string]any{"value": 0}}))

	engine.RegisterCommand("test.increment", func(ctx context.Context, cmd command.Command) (command.Result, error) {
		n, err := store.GetNode(ctx, "n1")
		if err != nil {
			return command.Result{}, err
		}
		v, _ := n.Data["value"].(float64)
		rec := changelog.NewRecorder(store)
		if err := rec.Update(ctx, graph.KindNode, "n1", graph.Patch{"data": map[string]any{"value": v + 1}}); err != nil {
			return command.Result{}, err
		}
		return command.Succeed(v+1, rec.Changes()...), nil
	})

	value := func() float64 {
		n, err := store.GetNode(ctx, "n1")
		require.NoError(t, err)
		v, _ := n.Data["value"].(float64)
		return v
	}

	require.True(t, engine.RunCommand(ctx, "test.increment", nil, "").Success)
	require.True(t, engine.RunCommand(ctx, "test.increment", nil, "").Success)
	assert.Equal(t, float64(2), value())

	require.True(t, engine.Undo(ctx).Success)
	assert.Equal(t, float64(1), value())

	require.True(t, engine.Redo(ctx).Success)
	assert.Equal(t, float64(2), value())

	history := engine.CommandHistory()
	require.Len(t, history, 2)
	assert.Equal(t, command.SourceUser, history[0].Source)
}

func TestEngine_CreateNodeUndoRedo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := newEngine(t)

	res := engine.RunCommand(ctx, structure.TypeCreateNode, structure.CreateNode{Title: "Idea", Type: "note"}, command.SourceAI)
	require.True(t, res.Success, res.Error)
	nodeID := res.Data.(structure.NodeData).NodeID

	created, err := engine.Store().GetNode(ctx, nodeID)
	require.NoError(t, err)

	require.True(t, engine.Undo(ctx).Success)
	_, err = engine.Store().GetNode(ctx, nodeID)
	assert.ErrorIs(t, err, graph.ErrNotFound)

	require.True(t, engine.Redo(ctx).Success)
	again, err := engine.Store().GetNode(ctx, nodeID)
	require.NoError(t, err)
	assert.Equal(t, created, again)

	assert.Equal(t, command.State{CanUndo: true, UndoCount: 1}, engine.UndoRedoState())
	engine.ClearUndoRedo()
	assert.Equal(t, command.State{}, engine.UndoRedoState())
}

func TestEngine_RunCommandsBestEffort(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	results := engine.RunCommands(context.Background(), []command.Request{
		{Type: structure.TypeCreateNode, Payload: structure.CreateNode{ID: "a"}},
		{Type: structure.TypeCreateEdge, Payload: structure.CreateEdge{Source: "a", Target: "missing"}},
		{Type: "unknown.command"},
		{Type: structure.TypeCreateNode, Payload: structure.CreateNode{ID: "b"}, Source: command.SourceWorkflow},
	})

	require.Len(t, results, 4)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.False(t, results[2].Success)
	assert.Contains(t, results[2].Error, command.ErrHandlerNotFound.Error())
	assert.True(t, results[3].Success)

	assert.Equal(t, 2, engine.UndoRedoState().UndoCount)
	assert.Len(t, engine.CommandHistory(), 4)
}

func TestEngine_Authorizer(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, graphedit.WithAuthorizer(func(ctx context.Context, cmd command.Command) error {
		if cmd.Source == command.SourcePlugin && cmd.Type == structure.TypeDeleteNode {
			return errors.New("plugins cannot delete")
		}
		return nil
	}))
	ctx := context.Background()

	require.True(t, engine.RunCommand(ctx, structure.TypeCreateNode, structure.CreateNode{ID: "n1"}, command.SourcePlugin).Success)
	res := engine.RunCommand(ctx, structure.TypeDeleteNode, structure.DeleteNode{ID: "n1"}, command.SourcePlugin)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "plugins cannot delete")

	_, err := engine.Store().GetNode(ctx, "n1")
	assert.NoError(t, err)
}

func TestEngine_MiddlewareAndMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	engine := newEngine(t, graphedit.WithMetrics(reg))

	var seen []string
	engine.AddMiddleware(func(next command.Handler) command.Handler {
		return func(ctx context.Context, cmd command.Command) (command.Result, error) {
			seen = append(seen, cmd.Type)
			return next(ctx, cmd)
		}
	})

	engine.RunCommand(context.Background(), structure.TypeCreateNode, structure.CreateNode{ID: "n1"}, "")
	assert.Equal(t, []string{structure.TypeCreateNode}, seen)

	expected := `
# HELP graphedit_commands_total Dispatched commands by type, source and outcome
# TYPE graphedit_commands_total counter
graphedit_commands_total{source="user",status="success",type="structure.createNode"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "graphedit_commands_total"))
}

func TestEngine_SharedBus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bus := event.NewBus(event.WithLogger(logger.Discard()))
	engine := newEngine(t, graphedit.WithEventBus(bus), graphedit.WithUndoLimit(5))
	require.Same(t, bus, engine.Bus())

	var types []string
	bus.On(event.Wildcard, func(ctx context.Context, evt event.Event) error {
		types = append(types, evt.Type)
		return nil
	})

	engine.RunCommand(ctx, structure.TypeCreateNode, structure.CreateNode{ID: "a"}, "")
	_, err := engine.Reversible().Execute(ctx, structure.NewCreateNode(engine.Store(), structure.CreateNode{ID: "b"}))
	require.NoError(t, err)

	assert.Equal(t, []string{command.EventExecuted, structure.EventNodeCreated}, types)
}

func TestEngine_ReversibleWaitsForRunningCommand(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	engine := newEngine(t)

	entered := make(chan struct{})
	unblock := make(chan struct{})
	engine.RegisterCommand("test.block", func(ctx context.Context, cmd command.Command) (command.Result, error) {
		close(entered)
		<-unblock
		return command.Succeed(nil), nil
	})

	done := make(chan command.Result, 1)
	go func() {
		done <- engine.RunCommand(ctx, "test.block", nil, command.SourceUser)
	}()
	<-entered

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	create := structure.NewCreateNode(engine.Store(), structure.CreateNode{Title: "late"})
	_, err := engine.Reversible().Execute(waitCtx, create)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	_, err = engine.Store().GetNode(ctx, create.NodeID())
	require.ErrorIs(t, err, graph.ErrNotFound)

	close(unblock)
	require.True(t, (<-done).Success)

	_, err = engine.Reversible().Execute(ctx, create)
	require.NoError(t, err)
	_, err = engine.Store().GetNode(ctx, create.NodeID())
	require.NoError(t, err)
}
