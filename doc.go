// Package graphedit is the command and undo/redo engine of a graph editor.
// It dispatches named commands through a middleware chain, records the entity
// changes each command makes and keeps bounded, consistent undo/redo history
// even when a reversal fails half way.
//
// # Quick Start
//
//	store := graph.NewMemoryStore()
//	engine, err := graphedit.New(store, graphedit.WithLogger(logger.New(logger.WithDevelopment("graphedit"))))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res := engine.RunCommand(ctx, structure.TypeCreateNode, structure.CreateNode{Title: "Idea"}, command.SourceUser)
//	nodeID := res.Data.(structure.NodeData).NodeID
//
//	engine.Undo(ctx) // node removed
//	engine.Redo(ctx) // node restored with identical fields
//
// # Package Organization
//
//	github.com/dmitrymomot/graphedit/core/graph       - Entities, change records, patches and the pluggable entity store
//	github.com/dmitrymomot/graphedit/core/changelog   - Forward and reverse application of change logs, change recorder
//	github.com/dmitrymomot/graphedit/core/history     - Bounded stacks and logs
//	github.com/dmitrymomot/graphedit/core/command     - Commands, registry, middleware, executor with undo/redo
//	github.com/dmitrymomot/graphedit/core/event       - Synchronous domain event bus
//	github.com/dmitrymomot/graphedit/core/reversible  - Self-describing reversible commands and their manager
//	github.com/dmitrymomot/graphedit/core/structure   - Built-in structure, layout and view commands
//	github.com/dmitrymomot/graphedit/core/config      - Type-safe environment variable loading
//	github.com/dmitrymomot/graphedit/core/logger      - Structured logging built on slog
//
// # Integrations
//
//	github.com/dmitrymomot/graphedit/integration/database/pg      - PostgreSQL entity backend with goose migrations
//	github.com/dmitrymomot/graphedit/integration/database/sqlite  - SQLite entity backend
//	github.com/dmitrymomot/graphedit/integration/database/redis   - Redis entity backend
//	github.com/dmitrymomot/graphedit/integration/database/mongo   - MongoDB entity backend
//	github.com/dmitrymomot/graphedit/integration/storage/s3       - Graph snapshot archive on S3
//
// # Utilities
//
//	github.com/dmitrymomot/graphedit/pkg/planner  - Free-text instructions to operations (OpenAI, Gemini) and their runner
//
// # Command-line
//
//	github.com/dmitrymomot/graphedit/cmd/graphctl - Runs operation scripts or instructions against a configured backend
package graphedit
