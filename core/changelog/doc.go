// Package changelog applies and reverses ordered entity change logs against
// the graph store.
//
// A command handler mutates the store and reports what it did as an ordered
// []graph.EntityChange. Apply replays such a log forward (redo); Reverse walks
// it back to front applying each entry's inverse (undo):
//
//	create -> delete(entityID)
//	update -> merge(before)
//	delete -> insert(before)
//
// Reversing in strict reverse order detaches later effects before removing the
// entities they depend on, e.g. a block id appended to its node is removed
// before the block itself is deleted.
//
// Both functions compensate on partial failure: when step i fails, the steps
// already taken are rolled back so the store is left as it was before the
// call, and an *Error describing the failing step is returned.
//
// Recorder wraps the store and captures before/after snapshots while a
// handler works, so handlers do not build change logs by hand:
//
//	rec := changelog.NewRecorder(store)
//	if err := rec.Create(ctx, graph.Node{ID: id}); err != nil {
//	    return err
//	}
//	changes := rec.Changes()
package changelog
