package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/graph/graphtest"
	"github.com/dmitrymomot/graphedit/integration/database/sqlite"
)

func open(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBackend(t *testing.T) {
	t.Parallel()

	graphtest.RunBackendSuite(t, func(t *testing.T) graph.Backend {
		return open(t).Backend("doc")
	})
}

func TestBackend_GraphsAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := open(t)
	a := graph.NewStore(db.Backend("a"))
	b := graph.NewStore(db.Backend("b"))

	require.NoError(t, a.AddNode(ctx, graph.Node{ID: "n1", Title: "from a"}))
	require.NoError(t, b.AddNode(ctx, graph.Node{ID: "n1", Title: "from b"}))

	na, err := a.GetNode(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "from a", na.Title)

	require.NoError(t, b.RemoveNode(ctx, "n1"))
	_, err = a.GetNode(ctx, "n1")
	assert.NoError(t, err)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		_, err := sqlite.Open(context.Background(), "  ")
		assert.ErrorIs(t, err, sqlite.ErrEmptyPath)
	})

	t.Run("in memory", func(t *testing.T) {
		db, err := sqlite.Open(context.Background(), ":memory:")
		require.NoError(t, err)
		defer db.Close()
		assert.NoError(t, db.Healthcheck(context.Background()))
	})

	t.Run("reopen keeps data", func(t *testing.T) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "graph.db")

		db, err := sqlite.Open(ctx, path)
		require.NoError(t, err)
		require.NoError(t, graph.NewStore(db.Backend("doc")).AddEdge(ctx, graph.Edge{ID: "e1", Source: "a", Target: "b"}))
		require.NoError(t, db.Close())

		db, err = sqlite.Open(ctx, path)
		require.NoError(t, err)
		defer db.Close()
		edges, err := graph.NewStore(db.Backend("doc")).Edges(ctx)
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, "e1", edges[0].ID)
	})
}
