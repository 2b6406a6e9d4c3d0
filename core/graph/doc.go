// Package graph holds the canonical domain state edited by the command engine:
// nodes, edges, blocks and views, stored as JSON documents behind a pluggable
// Backend and exposed through the typed Store facade.
//
// The Store is the single shared mutable resource the engine works against.
// It performs no locking discipline of its own beyond what the backend provides;
// the command executor guarantees a single writer while a command is in flight.
//
// # Entity Store Contract
//
// Every entity kind supports get/add/update/remove:
//
//	store := graph.NewMemoryStore()
//	err := store.AddNode(ctx, graph.Node{ID: "n1", Title: "Root"})
//	node, err := store.GetNode(ctx, "n1")
//	node, err = store.UpdateNode(ctx, "n1", graph.Patch{"title": "Renamed"})
//	err = store.RemoveNode(ctx, "n1")
//
// Missing entities are reported with ErrNotFound, duplicates with ErrAlreadyExists:
//
//	if errors.Is(err, graph.ErrNotFound) {
//	    // entity absent
//	}
//
// # Patches
//
// Updates are expressed as Patch values, JSON objects merged onto the stored
// entity at the top level. A nil value clears the field; the id is immutable.
//
// # Change Logs
//
// EntityChange records a single create/update/delete with before/after
// snapshots. An ordered []EntityChange is what the changelog package applies
// and reverses.
package graph
