package graph_test

import (
	"testing"

	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/graph/graphtest"
)

func TestMemoryBackend(t *testing.T) {
	t.Parallel()

	graphtest.RunBackendSuite(t, func(t *testing.T) graph.Backend {
		return graph.NewMemoryBackend()
	})
}
