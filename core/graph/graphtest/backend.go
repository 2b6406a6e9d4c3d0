// Package graphtest provides a conformance suite for graph.Backend implementations.
package graphtest

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/graphedit/core/graph"
)

// RunBackendSuite exercises the Backend contract against fresh backends
// produced by newBackend. Every subtest receives its own backend.
func RunBackendSuite(t *testing.T, newBackend func(t *testing.T) graph.Backend) {
	t.Helper()

	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Insert(ctx, graph.KindNode, "n1", []byte(`{"id":"n1","title":"a"}`)))

		data, err := b.Get(ctx, graph.KindNode, "n1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"n1","title":"a"}`, string(data))
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		b := newBackend(t)
		_, err := b.Get(ctx, graph.KindEdge, "missing")
		assert.ErrorIs(t, err, graph.ErrNotFound)
	})

	t.Run("duplicate insert is rejected", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Insert(ctx, graph.KindNode, "n1", []byte(`{"id":"n1"}`)))
		err := b.Insert(ctx, graph.KindNode, "n1", []byte(`{"id":"n1"}`))
		assert.ErrorIs(t, err, graph.ErrAlreadyExists)
	})

	t.Run("same id in different kinds does not collide", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Insert(ctx, graph.KindNode, "x", []byte(`{"id":"x"}`)))
		require.NoError(t, b.Insert(ctx, graph.KindView, "x", []byte(`{"id":"x"}`)))
	})

	t.Run("replace overwrites existing", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Insert(ctx, graph.KindBlock, "b1", []byte(`{"id":"b1","content":"old"}`)))
		require.NoError(t, b.Replace(ctx, graph.KindBlock, "b1", []byte(`{"id":"b1","content":"new"}`)))

		data, err := b.Get(ctx, graph.KindBlock, "b1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"b1","content":"new"}`, string(data))
	})

	t.Run("replace missing returns not found", func(t *testing.T) {
		b := newBackend(t)
		err := b.Replace(ctx, graph.KindBlock, "nope", []byte(`{"id":"nope"}`))
		assert.ErrorIs(t, err, graph.ErrNotFound)
	})

	t.Run("delete removes and reports missing", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Insert(ctx, graph.KindEdge, "e1", []byte(`{"id":"e1"}`)))
		require.NoError(t, b.Delete(ctx, graph.KindEdge, "e1"))

		_, err := b.Get(ctx, graph.KindEdge, "e1")
		assert.ErrorIs(t, err, graph.ErrNotFound)
		assert.ErrorIs(t, b.Delete(ctx, graph.KindEdge, "e1"), graph.ErrNotFound)
	})

	t.Run("list returns all documents of a kind", func(t *testing.T) {
		b := newBackend(t)
		require.NoError(t, b.Insert(ctx, graph.KindNode, "a", []byte(`{"id":"a"}`)))
		require.NoError(t, b.Insert(ctx, graph.KindNode, "b", []byte(`{"id":"b"}`)))
		require.NoError(t, b.Insert(ctx, graph.KindEdge, "c", []byte(`{"id":"c"}`)))

		docs, err := b.List(ctx, graph.KindNode)
		require.NoError(t, err)
		got := make([]string, 0, len(docs))
		for _, d := range docs {
			got = append(got, string(d))
		}
		sort.Strings(got)
		require.Len(t, got, 2)
		assert.JSONEq(t, `{"id":"a"}`, got[0])
		assert.JSONEq(t, `{"id":"b"}`, got[1])
	})
}
