package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/graphedit/core/graph"
)

func TestStore_NodeCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := graph.NewMemoryStore()

	node := graph.Node{
		ID:       "n1",
		Title:    "Root",
		Position: graph.Position{X: 10, Y: 20},
		Data:     map[string]any{"value": 0},
	}
	require.NoError(t, store.AddNode(ctx, node))

	got, err := store.GetNode(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Root", got.Title)
	assert.Equal(t, graph.Position{X: 10, Y: 20}, got.Position)
	assert.Equal(t, float64(0), got.Data["value"])

	updated, err := store.UpdateNode(ctx, "n1", graph.Patch{"title": "Renamed", "content": "body"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, graph.Position{X: 10, Y: 20}, updated.Position, "untouched fields are kept")

	require.NoError(t, store.RemoveNode(ctx, "n1"))
	_, err = store.GetNode(ctx, "n1")
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestStore_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := graph.NewMemoryStore()
	require.NoError(t, store.AddEdge(ctx, graph.Edge{ID: "e1", Source: "a", Target: "b"}))

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{
			name: "duplicate add",
			fn:   func() error { return store.AddEdge(ctx, graph.Edge{ID: "e1"}) },
			want: graph.ErrAlreadyExists,
		},
		{
			name: "update missing",
			fn: func() error {
				_, err := store.UpdateView(ctx, "v1", graph.Patch{"name": "x"})
				return err
			},
			want: graph.ErrNotFound,
		},
		{
			name: "remove missing",
			fn:   func() error { return store.RemoveBlock(ctx, "b1") },
			want: graph.ErrNotFound,
		},
		{
			name: "empty id",
			fn:   func() error { return store.AddNode(ctx, graph.Node{}) },
			want: graph.ErrInvalidEntity,
		},
		{
			name: "patch of the wrong shape",
			fn: func() error {
				_, err := store.UpdateEdge(ctx, "e1", graph.Patch{"source": 42})
				return err
			},
			want: graph.ErrInvalidEntity,
		},
		{
			name: "unknown kind",
			fn:   func() error { return store.Delete(ctx, graph.Kind("shape"), "x") },
			want: graph.ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.fn(), tt.want)
		})
	}
}

func TestStore_MergeNilClearsField(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := graph.NewMemoryStore()
	require.NoError(t, store.AddNode(ctx, graph.Node{ID: "n1", Title: "x", ParentID: "p"}))

	node, err := store.UpdateNode(ctx, "n1", graph.Patch{"parent_id": nil, "id": "other"})
	require.NoError(t, err)
	assert.Empty(t, node.ParentID)
	assert.Equal(t, "n1", node.ID, "id is immutable")
}

func TestStore_EdgesOf(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := graph.NewMemoryStore()
	require.NoError(t, store.AddEdge(ctx, graph.Edge{ID: "e1", Source: "a", Target: "b"}))
	require.NoError(t, store.AddEdge(ctx, graph.Edge{ID: "e2", Source: "c", Target: "a"}))
	require.NoError(t, store.AddEdge(ctx, graph.Edge{ID: "e3", Source: "b", Target: "c"}))

	edges, err := store.EdgesOf(ctx, "a")
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "e1", edges[0].ID)
	assert.Equal(t, "e2", edges[1].ID)
}

func TestStore_ExportImport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := graph.NewMemoryStore()
	require.NoError(t, src.AddNode(ctx, graph.Node{ID: "n1", Title: "a"}))
	require.NoError(t, src.AddNode(ctx, graph.Node{ID: "n2", Title: "b"}))
	require.NoError(t, src.AddEdge(ctx, graph.Edge{ID: "e1", Source: "n1", Target: "n2"}))
	require.NoError(t, src.AddBlock(ctx, graph.Block{ID: "b1", NodeID: "n1", Content: "text"}))
	require.NoError(t, src.AddView(ctx, graph.View{ID: "v1", Name: "main", Zoom: 1.5}))

	snap, err := src.Export(ctx)
	require.NoError(t, err)

	dst := graph.NewMemoryStore()
	require.NoError(t, dst.AddNode(ctx, graph.Node{ID: "n1", Title: "stale"}))
	require.NoError(t, dst.Import(ctx, snap))

	got, err := dst.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestAlign(t *testing.T) {
	t.Parallel()

	before := graph.Patch{"id": "n1", "title": "a"}
	after := graph.Patch{"id": "n1", "content": "b"}

	b, a := graph.Align(before, after)
	assert.Equal(t, graph.Patch{"id": "n1", "title": "a", "content": nil}, b)
	assert.Equal(t, graph.Patch{"id": "n1", "title": nil, "content": "b"}, a)
}

func TestPatchPick(t *testing.T) {
	t.Parallel()

	p := graph.Patch{"title": "a", "content": "b"}
	assert.Equal(t, graph.Patch{"title": "a", "missing": nil}, p.Pick("title", "missing"))
}
