package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Store is the typed facade over a Backend. It validates every document
// against its entity shape before it reaches the backend.
type Store struct {
	backend Backend
}

// NewStore wraps a backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// NewMemoryStore returns a Store over a fresh in-memory backend.
func NewMemoryStore() *Store {
	return NewStore(NewMemoryBackend())
}

// Backend exposes the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Snapshot returns the whole stored entity as a Patch.
func (s *Store) Snapshot(ctx context.Context, kind Kind, id string) (Patch, error) {
	data, err := s.get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: decode %s %q: %v", ErrInvalidEntity, kind, id, err)
	}
	return p, nil
}

// Insert stores a new entity built from a whole snapshot.
func (s *Store) Insert(ctx context.Context, kind Kind, id string, state Patch) error {
	if id == "" {
		return fmt.Errorf("%w: empty %s id", ErrInvalidEntity, kind)
	}
	doc := state.Clone()
	if doc == nil {
		doc = Patch{}
	}
	doc["id"] = id
	data, err := canonical(kind, doc)
	if err != nil {
		return err
	}
	if err := s.backend.Insert(ctx, kind, id, data); err != nil {
		return fmt.Errorf("insert %s %q: %w", kind, id, err)
	}
	return nil
}

// Merge applies patch onto the stored entity at the top level.
func (s *Store) Merge(ctx context.Context, kind Kind, id string, patch Patch) error {
	current, err := s.Snapshot(ctx, kind, id)
	if err != nil {
		return err
	}
	doc := merge(current, patch.Clone())
	doc["id"] = id
	data, err := canonical(kind, doc)
	if err != nil {
		return err
	}
	if err := s.backend.Replace(ctx, kind, id, data); err != nil {
		return fmt.Errorf("replace %s %q: %w", kind, id, err)
	}
	return nil
}

// Delete removes an entity.
func (s *Store) Delete(ctx context.Context, kind Kind, id string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err := s.backend.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s %q: %w", kind, id, err)
	}
	return nil
}

// Exists reports whether an entity is stored.
func (s *Store) Exists(ctx context.Context, kind Kind, id string) (bool, error) {
	_, err := s.get(ctx, kind, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) get(ctx context.Context, kind Kind, id string) ([]byte, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	data, err := s.backend.Get(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %q: %w", kind, id, err)
	}
	return data, nil
}

// canonical validates doc against the kind's entity type and re-encodes it
// so that unknown fields are dropped.
func canonical(kind Kind, doc Patch) ([]byte, error) {
	entity, err := newEntity(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, kind)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", ErrInvalidEntity, kind, err)
	}
	if err := json.Unmarshal(raw, entity); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEntity, kind, err)
	}
	return json.Marshal(entity)
}

func getTyped[T Entity](ctx context.Context, s *Store, kind Kind, id string) (T, error) {
	var out T
	data, err := s.get(ctx, kind, id)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: decode %s %q: %v", ErrInvalidEntity, kind, id, err)
	}
	return out, nil
}

func addTyped[T Entity](ctx context.Context, s *Store, v T) error {
	p, err := ToPatch(v)
	if err != nil {
		return err
	}
	return s.Insert(ctx, v.EntityKind(), v.EntityID(), p)
}

func updateTyped[T Entity](ctx context.Context, s *Store, kind Kind, id string, patch Patch) (T, error) {
	if err := s.Merge(ctx, kind, id, patch); err != nil {
		var zero T
		return zero, err
	}
	return getTyped[T](ctx, s, kind, id)
}

func listTyped[T Entity](ctx context.Context, s *Store, kind Kind) ([]T, error) {
	docs, err := s.backend.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	out := make([]T, 0, len(docs))
	for _, data := range docs {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidEntity, kind, err)
		}
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int {
		return strings.Compare(a.EntityID(), b.EntityID())
	})
	return out, nil
}

func (s *Store) GetNode(ctx context.Context, id string) (Node, error) {
	return getTyped[Node](ctx, s, KindNode, id)
}

func (s *Store) GetEdge(ctx context.Context, id string) (Edge, error) {
	return getTyped[Edge](ctx, s, KindEdge, id)
}

func (s *Store) GetBlock(ctx context.Context, id string) (Block, error) {
	return getTyped[Block](ctx, s, KindBlock, id)
}

func (s *Store) GetView(ctx context.Context, id string) (View, error) {
	return getTyped[View](ctx, s, KindView, id)
}

func (s *Store) AddNode(ctx context.Context, n Node) error   { return addTyped(ctx, s, n) }
func (s *Store) AddEdge(ctx context.Context, e Edge) error   { return addTyped(ctx, s, e) }
func (s *Store) AddBlock(ctx context.Context, b Block) error { return addTyped(ctx, s, b) }
func (s *Store) AddView(ctx context.Context, v View) error   { return addTyped(ctx, s, v) }

// UpdateNode merges patch onto the node and returns the updated node.
func (s *Store) UpdateNode(ctx context.Context, id string, patch Patch) (Node, error) {
	return updateTyped[Node](ctx, s, KindNode, id, patch)
}

func (s *Store) UpdateEdge(ctx context.Context, id string, patch Patch) (Edge, error) {
	return updateTyped[Edge](ctx, s, KindEdge, id, patch)
}

func (s *Store) UpdateBlock(ctx context.Context, id string, patch Patch) (Block, error) {
	return updateTyped[Block](ctx, s, KindBlock, id, patch)
}

func (s *Store) UpdateView(ctx context.Context, id string, patch Patch) (View, error) {
	return updateTyped[View](ctx, s, KindView, id, patch)
}

func (s *Store) RemoveNode(ctx context.Context, id string) error  { return s.Delete(ctx, KindNode, id) }
func (s *Store) RemoveEdge(ctx context.Context, id string) error  { return s.Delete(ctx, KindEdge, id) }
func (s *Store) RemoveBlock(ctx context.Context, id string) error { return s.Delete(ctx, KindBlock, id) }
func (s *Store) RemoveView(ctx context.Context, id string) error  { return s.Delete(ctx, KindView, id) }

// Nodes returns all nodes ordered by id.
func (s *Store) Nodes(ctx context.Context) ([]Node, error) { return listTyped[Node](ctx, s, KindNode) }

// Edges returns all edges ordered by id.
func (s *Store) Edges(ctx context.Context) ([]Edge, error) { return listTyped[Edge](ctx, s, KindEdge) }

// Blocks returns all blocks ordered by id.
func (s *Store) Blocks(ctx context.Context) ([]Block, error) {
	return listTyped[Block](ctx, s, KindBlock)
}

// Views returns all views ordered by id.
func (s *Store) Views(ctx context.Context) ([]View, error) { return listTyped[View](ctx, s, KindView) }

// EdgesOf returns every edge whose source or target is nodeID.
func (s *Store) EdgesOf(ctx context.Context, nodeID string) ([]Edge, error) {
	edges, err := s.Edges(ctx)
	if err != nil {
		return nil, err
	}
	out := edges[:0]
	for _, e := range edges {
		if e.Source == nodeID || e.Target == nodeID {
			out = append(out, e)
		}
	}
	return out, nil
}
