package graph

import "context"

// Backend persists entities as JSON documents keyed by kind and id.
// Implementations must report missing entities with ErrNotFound and id
// collisions on Insert with ErrAlreadyExists (wrapping is allowed).
type Backend interface {
	// Get returns the stored document.
	Get(ctx context.Context, kind Kind, id string) ([]byte, error)

	// Insert stores a new document. Fails with ErrAlreadyExists if the id is taken.
	Insert(ctx context.Context, kind Kind, id string, data []byte) error

	// Replace overwrites an existing document. Fails with ErrNotFound if absent.
	Replace(ctx context.Context, kind Kind, id string, data []byte) error

	// Delete removes a document. Fails with ErrNotFound if absent.
	Delete(ctx context.Context, kind Kind, id string) error

	// List returns every document of the kind in no particular order.
	List(ctx context.Context, kind Kind) ([][]byte, error)
}
