package graph

import (
	"context"
	"errors"
	"fmt"
)

// Snapshot is a full, ordered dump of the store.
type Snapshot struct {
	Nodes  []Node  `json:"nodes"`
	Edges  []Edge  `json:"edges"`
	Blocks []Block `json:"blocks"`
	Views  []View  `json:"views"`
}

// Export reads every entity into a Snapshot.
func (s *Store) Export(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Nodes, err = s.Nodes(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Edges, err = s.Edges(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Blocks, err = s.Blocks(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Views, err = s.Views(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Import writes every entity of the snapshot, overwriting entities with the
// same id. Entities not in the snapshot are left untouched.
func (s *Store) Import(ctx context.Context, snap Snapshot) error {
	entities := make([]Entity, 0, len(snap.Nodes)+len(snap.Edges)+len(snap.Blocks)+len(snap.Views))
	for _, n := range snap.Nodes {
		entities = append(entities, n)
	}
	for _, e := range snap.Edges {
		entities = append(entities, e)
	}
	for _, b := range snap.Blocks {
		entities = append(entities, b)
	}
	for _, v := range snap.Views {
		entities = append(entities, v)
	}

	for _, e := range entities {
		if err := s.upsert(ctx, e); err != nil {
			return fmt.Errorf("import %s %q: %w", e.EntityKind(), e.EntityID(), err)
		}
	}
	return nil
}

func (s *Store) upsert(ctx context.Context, e Entity) error {
	p, err := ToPatch(e)
	if err != nil {
		return err
	}
	err = s.Insert(ctx, e.EntityKind(), e.EntityID(), p)
	if !errors.Is(err, ErrAlreadyExists) {
		return err
	}
	data, err := canonical(e.EntityKind(), p)
	if err != nil {
		return err
	}
	return s.backend.Replace(ctx, e.EntityKind(), e.EntityID(), data)
}
