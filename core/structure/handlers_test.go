package structure_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/graphedit/core/command"
	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/logger"
	"github.com/dmitrymomot/graphedit/core/structure"
)

func setup(t *testing.T) (*graph.Store, *command.Executor) {
	t.Helper()

	store := graph.NewMemoryStore()
	registry := command.NewRegistry()
	structure.Register(registry, store)
	return store, command.NewExecutor(registry, store, command.WithLogger(logger.Discard()))
}

func run(t *testing.T, exec *command.Executor, cmdType string, payload any) command.Result {
	t.Helper()
	return exec.Execute(context.Background(), cmdType, payload, command.SourceUser)
}

func mustRun(t *testing.T, exec *command.Executor, cmdType string, payload any) command.Result {
	t.Helper()
	res := run(t, exec, cmdType, payload)
	require.True(t, res.Success, res.Error)
	return res
}

func export(t *testing.T, store *graph.Store) graph.Snapshot {
	t.Helper()
	snap, err := store.Export(context.Background())
	require.NoError(t, err)
	return snap
}

func TestCreateNode_UndoRedo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, exec := setup(t)

	res := mustRun(t, exec, structure.TypeCreateNode, structure.CreateNode{
		Type:     "idea",
		Title:    "Root",
		Position: graph.Position{X: 10, Y: 20},
		Data:     map[string]any{"color": "red"},
	})
	data, ok := res.Data.(structure.NodeData)
	require.True(t, ok)
	require.NotEmpty(t, data.NodeID)

	created, err := store.GetNode(ctx, data.NodeID)
	require.NoError(t, err)

	require.True(t, exec.Undo(ctx).Success)
	_, err = store.GetNode(ctx, data.NodeID)
	assert.ErrorIs(t, err, graph.ErrNotFound)

	require.True(t, exec.Redo(ctx).Success)
	restored, err := store.GetNode(ctx, data.NodeID)
	require.NoError(t, err)
	assert.Equal(t, created, restored)
}

func TestDeleteNode_RestoresEdgesAndBlocks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, exec := setup(t)

	mustRun(t, exec, structure.TypeCreateNode, structure.CreateNode{ID: "a", Title: "A"})
	mustRun(t, exec, structure.TypeCreateNode, structure.CreateNode{ID: "b", Title: "B"})
	mustRun(t, exec, structure.TypeCreateNode, structure.CreateNode{ID: "c", Title: "C"})
	mustRun(t, exec, structure.TypeCreateEdge, structure.CreateEdge{ID: "ab", Source: "a", Target: "b"})
	mustRun(t, exec, structure.TypeCreateEdge, structure.CreateEdge{ID: "ca", Source: "c", Target: "a"})
	mustRun(t, exec, structure.TypeCreateEdge, structure.CreateEdge{ID: "bc", Source: "b", Target: "c"})
	mustRun(t, exec, structure.TypeCreateBlock, structure.CreateBlock{ID: "blk", NodeID: "a", Kind: "text", Content: "hi"})

	before := export(t, store)

	res := mustRun(t, exec, structure.TypeDeleteNode, structure.DeleteNode{ID: "a"})
	data := res.Data.(structure.NodeData)
	assert.ElementsMatch(t, []string{"ab", "ca"}, data.EdgeIDs)

	edges, err := store.Edges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "bc", edges[0].ID)
	_, err = store.GetBlock(ctx, "blk")
	assert.ErrorIs(t, err, graph.ErrNotFound)

	require.True(t, exec.Undo(ctx).Success)
	assert.Equal(t, before, export(t, store))
}

func TestCreateBlock_LinksOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, exec := setup(t)

	mustRun(t, exec, structure.TypeCreateNode, structure.CreateNode{ID: "n1"})
	before := export(t, store)

	res := mustRun(t, exec, structure.TypeCreateBlock, structure.CreateBlock{NodeID: "n1", Kind: "code"})
	require.Len(t, res.Changes, 2)
	assert.Equal(t, graph.ChangeCreate, res.Changes[0].Type)
	assert.Equal(t, graph.ChangeUpdate, res.Changes[1].Type)

	blockID := res.Data.(structure.BlockData).BlockID
	n, err := store.GetNode(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, []string{blockID}, n.BlockIDs)

	require.True(t, exec.Undo(ctx).Success)
	assert.Equal(t, before, export(t, store))
}

func TestUpdateNode_ClearsAndRestoresFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, exec := setup(t)

	mustRun(t, exec, structure.TypeCreateNode, structure.CreateNode{ID: "n1", Title: "Old", Content: "body"})
	mustRun(t, exec, structure.TypeUpdateNode, structure.UpdateNode{
		ID:    "n1",
		Patch: graph.Patch{"title": "New", "content": nil},
	})

	n, err := store.GetNode(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "New", n.Title)
	assert.Empty(t, n.Content)

	require.True(t, exec.Undo(ctx).Success)
	n, err = store.GetNode(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Old", n.Title)
	assert.Equal(t, "body", n.Content)
}

func TestUpdateNodePosition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, exec := setup(t)

	mustRun(t, exec, structure.TypeCreateNode, structure.CreateNode{ID: "n1", Position: graph.Position{X: 1, Y: 1}})
	mustRun(t, exec, structure.TypeUpdateNodePosition, structure.UpdateNodePosition{ID: "n1", Position: graph.Position{X: 5, Y: 7}})

	n, err := store.GetNode(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, graph.Position{X: 5, Y: 7}, n.Position)

	require.True(t, exec.Undo(ctx).Success)
	n, err = store.GetNode(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, graph.Position{X: 1, Y: 1}, n.Position)
}

func TestUpdateView_CreatesWhenAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, exec := setup(t)

	res := mustRun(t, exec, structure.TypeUpdateView, structure.UpdateView{
		ID:    "main",
		Patch: graph.Patch{"name": "Main", "zoom": 1.5},
	})
	assert.True(t, res.Data.(structure.ViewData).Created)

	v, err := store.GetView(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "Main", v.Name)
	assert.Equal(t, 1.5, v.Zoom)

	res = mustRun(t, exec, structure.TypeUpdateView, structure.UpdateView{ID: "main", Patch: graph.Patch{"zoom": 2}})
	assert.False(t, res.Data.(structure.ViewData).Created)

	require.True(t, exec.Undo(ctx).Success)
	v, err = store.GetView(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v.Zoom)

	require.True(t, exec.Undo(ctx).Success)
	_, err = store.GetView(ctx, "main")
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestValidationFailures(t *testing.T) {
	t.Parallel()

	_, exec := setup(t)
	mustRun(t, exec, structure.TypeCreateNode, structure.CreateNode{ID: "n1"})

	tests := []struct {
		name    string
		cmdType string
		payload any
		want    string
	}{
		{name: "duplicate node", cmdType: structure.TypeCreateNode, payload: structure.CreateNode{ID: "n1"}, want: `node "n1" already exists`},
		{name: "missing parent", cmdType: structure.TypeCreateNode, payload: structure.CreateNode{ParentID: "ghost"}, want: `node "ghost" not found`},
		{name: "update missing node", cmdType: structure.TypeUpdateNode, payload: structure.UpdateNode{ID: "ghost", Patch: graph.Patch{"title": "x"}}, want: "not found"},
		{name: "update empty patch", cmdType: structure.TypeUpdateNode, payload: structure.UpdateNode{ID: "n1"}, want: "empty patch"},
		{name: "delete without id", cmdType: structure.TypeDeleteNode, payload: structure.DeleteNode{}, want: "node id is required"},
		{name: "edge to missing node", cmdType: structure.TypeCreateEdge, payload: structure.CreateEdge{Source: "n1", Target: "ghost"}, want: `node "ghost" not found`},
		{name: "delete missing edge", cmdType: structure.TypeDeleteEdge, payload: structure.DeleteEdge{ID: "e9"}, want: `edge "e9" not found`},
		{name: "block on missing node", cmdType: structure.TypeCreateBlock, payload: structure.CreateBlock{NodeID: "ghost"}, want: "not found"},
		{name: "move missing node", cmdType: structure.TypeUpdateNodePosition, payload: structure.UpdateNodePosition{ID: "ghost"}, want: "not found"},
		{name: "view without id", cmdType: structure.TypeUpdateView, payload: structure.UpdateView{}, want: "empty id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, exec, tt.cmdType, tt.payload)
			assert.False(t, res.Success)
			assert.Contains(t, res.Error, tt.want)
			assert.Empty(t, res.Changes)
		})
	}
	assert.Equal(t, 1, exec.State().UndoCount)
}

func TestHandlers_MapPayload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, exec := setup(t)

	mustRun(t, exec, structure.TypeCreateNode, map[string]any{
		"id":       "n1",
		"title":    "From JSON",
		"position": map[string]any{"x": 3, "y": 4},
	})

	n, err := store.GetNode(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "From JSON", n.Title)
	assert.Equal(t, graph.Position{X: 3, Y: 4}, n.Position)
}

// brokenBackend fails every Replace so multi-step handlers must roll back.
type brokenBackend struct {
	*graph.MemoryBackend
}

func (b brokenBackend) Replace(context.Context, graph.Kind, string, []byte) error {
	return errors.New("replace refused")
}

func TestCreateBlock_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := graph.NewStore(brokenBackend{graph.NewMemoryBackend()})
	require.NoError(t, store.AddNode(ctx, graph.Node{ID: "n1"}))

	registry := command.NewRegistry()
	structure.Register(registry, store)
	exec := command.NewExecutor(registry, store, command.WithLogger(logger.Discard()))

	res := exec.Execute(ctx, structure.TypeCreateBlock, structure.CreateBlock{ID: "b1", NodeID: "n1"}, "")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "replace refused")

	_, err := store.GetBlock(ctx, "b1")
	assert.ErrorIs(t, err, graph.ErrNotFound)
	assert.False(t, exec.State().CanUndo)
}
