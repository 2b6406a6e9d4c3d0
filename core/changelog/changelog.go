package changelog

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/graphedit/core/graph"
)

// Store is the kind-level write contract the algorithm dispatches to.
// *graph.Store implements it.
type Store interface {
	Insert(ctx context.Context, kind graph.Kind, id string, state graph.Patch) error
	Merge(ctx context.Context, kind graph.Kind, id string, patch graph.Patch) error
	Delete(ctx context.Context, kind graph.Kind, id string) error
}

// Apply replays changes in their original order.
// On failure the already applied prefix is reversed before returning.
func Apply(ctx context.Context, store Store, changes []graph.EntityChange) error {
	for i, c := range changes {
		if err := forward(ctx, store, c); err != nil {
			return &Error{
				Op:           "apply",
				Index:        i,
				Change:       c,
				Err:          err,
				Compensation: reverseAll(ctx, store, changes[:i]),
			}
		}
	}
	return nil
}

// Reverse undoes changes by applying each inverse in reverse array order.
// On failure the already reversed suffix is re-applied before returning.
func Reverse(ctx context.Context, store Store, changes []graph.EntityChange) error {
	for i := len(changes) - 1; i >= 0; i-- {
		c := changes[i]
		if err := inverse(ctx, store, c); err != nil {
			return &Error{
				Op:           "reverse",
				Index:        i,
				Change:       c,
				Err:          err,
				Compensation: forwardAll(ctx, store, changes[i+1:]),
			}
		}
	}
	return nil
}

func forwardAll(ctx context.Context, store Store, changes []graph.EntityChange) error {
	for _, c := range changes {
		if err := forward(ctx, store, c); err != nil {
			return err
		}
	}
	return nil
}

func reverseAll(ctx context.Context, store Store, changes []graph.EntityChange) error {
	for i := len(changes) - 1; i >= 0; i-- {
		if err := inverse(ctx, store, changes[i]); err != nil {
			return err
		}
	}
	return nil
}

func forward(ctx context.Context, store Store, c graph.EntityChange) error {
	switch c.Type {
	case graph.ChangeCreate:
		if c.After == nil {
			return fmt.Errorf("%w: create without after", ErrMissingSnapshot)
		}
		return store.Insert(ctx, c.EntityType, c.EntityID, c.After)
	case graph.ChangeUpdate:
		if c.After == nil {
			return fmt.Errorf("%w: update without after", ErrMissingSnapshot)
		}
		return store.Merge(ctx, c.EntityType, c.EntityID, c.After)
	case graph.ChangeDelete:
		return store.Delete(ctx, c.EntityType, c.EntityID)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedChange, c.Type)
}

func inverse(ctx context.Context, store Store, c graph.EntityChange) error {
	switch c.Type {
	case graph.ChangeCreate:
		return store.Delete(ctx, c.EntityType, c.EntityID)
	case graph.ChangeUpdate:
		if c.Before == nil {
			return fmt.Errorf("%w: update without before", ErrMissingSnapshot)
		}
		return store.Merge(ctx, c.EntityType, c.EntityID, c.Before)
	case graph.ChangeDelete:
		if c.Before == nil {
			return fmt.Errorf("%w: delete without before", ErrMissingSnapshot)
		}
		return store.Insert(ctx, c.EntityType, c.EntityID, c.Before)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedChange, c.Type)
}
