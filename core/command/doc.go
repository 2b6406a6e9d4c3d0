// Package command implements the command engine: a registry of named command
// handlers, an onion-ordered middleware pipeline and an executor with bounded
// history and change-log based undo/redo.
//
// # Handlers
//
// A handler mutates the graph store and reports the entity changes it made.
// Handlers with typed payloads are adapted with Handle:
//
//	type Increment struct{ NodeID string }
//
//	registry := command.NewRegistry()
//	registry.Register("test.increment", command.Handle(func(ctx context.Context, cmd command.Command, p Increment) (command.Result, error) {
//	    rec := changelog.NewRecorder(store)
//	    if err := rec.Update(ctx, graph.KindNode, p.NodeID, patch); err != nil {
//	        return command.Result{}, err
//	    }
//	    return command.Succeed(nil, rec.Changes()...), nil
//	}))
//
// Validation problems are reported with Fail and a nil error. Returned errors
// and panics are converted into failure results by the Executor, which is the
// single place where errors stop propagating.
//
// # Middleware
//
// Middleware wraps every dispatch. The first middleware added is the outermost:
//
//	registry.Use(command.DefaultMiddleware(logger, nil)...)
//	registry.Use(metrics.Middleware(), command.TracingMiddleware(tracer))
//
// # Executor
//
//	exec := command.NewExecutor(registry, store,
//	    command.WithUndoLimit(50),
//	    command.WithLogger(logger),
//	)
//
//	res := exec.Execute(ctx, "test.increment", Increment{NodeID: "n1"}, command.SourceUser)
//	res = exec.Undo(ctx)
//	res = exec.Redo(ctx)
//	state := exec.State()
//
// Execute, Undo and Redo are serialized through a single-slot gate and honour
// context cancellation while waiting for it.
//
// Undo replays the inverse of the recorded change log in reverse order; redo
// replays it forward. A failed undo or redo leaves the entry on the stack it
// came from so the operation can be retried. Restores use whole-entity
// snapshots, so undoing an earlier command overwrites fields a later command
// changed on the same entity.
package command
