package changelog

import (
	"context"

	"github.com/dmitrymomot/graphedit/core/graph"
)

// Recorder performs store mutations and records each one as an EntityChange.
// It is not safe for concurrent use; create one per handler invocation.
type Recorder struct {
	store   *graph.Store
	changes []graph.EntityChange
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store *graph.Store) *Recorder {
	return &Recorder{store: store}
}

// Store returns the wrapped store for reads.
func (r *Recorder) Store() *graph.Store {
	return r.store
}

// Create inserts e and records a create change.
func (r *Recorder) Create(ctx context.Context, e graph.Entity) error {
	state, err := graph.ToPatch(e)
	if err != nil {
		return err
	}
	kind, id := e.EntityKind(), e.EntityID()
	if err := r.store.Insert(ctx, kind, id, state); err != nil {
		return err
	}
	after, err := r.store.Snapshot(ctx, kind, id)
	if err != nil {
		return err
	}
	r.changes = append(r.changes, graph.Created(kind, id, after))
	return nil
}

// Update merges patch onto the entity and records whole before/after snapshots.
func (r *Recorder) Update(ctx context.Context, kind graph.Kind, id string, patch graph.Patch) error {
	before, err := r.store.Snapshot(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := r.store.Merge(ctx, kind, id, patch); err != nil {
		return err
	}
	after, err := r.store.Snapshot(ctx, kind, id)
	if err != nil {
		return err
	}
	b, a := graph.Align(before, after)
	r.changes = append(r.changes, graph.Updated(kind, id, b, a))
	return nil
}

// Delete removes the entity and records its last state.
func (r *Recorder) Delete(ctx context.Context, kind graph.Kind, id string) error {
	before, err := r.store.Snapshot(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, kind, id); err != nil {
		return err
	}
	r.changes = append(r.changes, graph.Deleted(kind, id, before))
	return nil
}

// Changes returns the recorded log in execution order.
func (r *Recorder) Changes() []graph.EntityChange {
	out := make([]graph.EntityChange, len(r.changes))
	copy(out, r.changes)
	return out
}

// Rollback reverses everything recorded so far and forgets it.
// Handlers call it when a later step fails so a failed command leaves no trace.
func (r *Recorder) Rollback(ctx context.Context) error {
	err := Reverse(ctx, r.store, r.changes)
	r.changes = nil
	return err
}
