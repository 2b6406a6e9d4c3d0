package structure

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/graphedit/core/changelog"
	"github.com/dmitrymomot/graphedit/core/command"
	"github.com/dmitrymomot/graphedit/core/graph"
)

// Handlers implements the built-in command families against a store.
type Handlers struct {
	store *graph.Store
}

// NewHandlers creates handlers mutating store.
func NewHandlers(store *graph.Store) *Handlers {
	return &Handlers{store: store}
}

// Register binds every built-in command type to registry.
func Register(registry *command.Registry, store *graph.Store) {
	h := NewHandlers(store)
	registry.Register(TypeCreateNode, command.Handle(h.CreateNode))
	registry.Register(TypeUpdateNode, command.Handle(h.UpdateNode))
	registry.Register(TypeDeleteNode, command.Handle(h.DeleteNode))
	registry.Register(TypeCreateEdge, command.Handle(h.CreateEdge))
	registry.Register(TypeDeleteEdge, command.Handle(h.DeleteEdge))
	registry.Register(TypeCreateBlock, command.Handle(h.CreateBlock))
	registry.Register(TypeUpdateNodePosition, command.Handle(h.UpdateNodePosition))
	registry.Register(TypeUpdateView, command.Handle(h.UpdateView))
}

// CreateNode handles structure.createNode.
func (h *Handlers) CreateNode(ctx context.Context, _ command.Command, p CreateNode) (command.Result, error) {
	if p.ParentID != "" {
		if res, ok, err := h.require(ctx, graph.KindNode, p.ParentID); !ok {
			return res, err
		}
	}
	n := p.node()
	if n.ID == "" {
		n.ID = uuid.NewString()
	} else if res, ok, err := h.absent(ctx, graph.KindNode, n.ID); !ok {
		return res, err
	}

	return h.record(ctx, func(rec *changelog.Recorder) (any, error) {
		return NodeData{NodeID: n.ID}, rec.Create(ctx, n)
	})
}

// UpdateNode handles structure.updateNode.
func (h *Handlers) UpdateNode(ctx context.Context, _ command.Command, p UpdateNode) (command.Result, error) {
	if len(p.Patch) == 0 {
		return command.Fail("update node %q: empty patch", p.ID), nil
	}
	if res, ok, err := h.require(ctx, graph.KindNode, p.ID); !ok {
		return res, err
	}

	return h.record(ctx, func(rec *changelog.Recorder) (any, error) {
		return NodeData{NodeID: p.ID}, rec.Update(ctx, graph.KindNode, p.ID, p.Patch)
	})
}

// DeleteNode handles structure.deleteNode. Connected edges and the node's
// blocks are deleted first so undo restores the node before them.
func (h *Handlers) DeleteNode(ctx context.Context, _ command.Command, p DeleteNode) (command.Result, error) {
	if res, ok, err := h.require(ctx, graph.KindNode, p.ID); !ok {
		return res, err
	}
	n, err := h.store.GetNode(ctx, p.ID)
	if err != nil {
		return command.Result{}, err
	}
	edges, err := h.store.EdgesOf(ctx, p.ID)
	if err != nil {
		return command.Result{}, err
	}

	return h.record(ctx, func(rec *changelog.Recorder) (any, error) {
		data := NodeData{NodeID: p.ID, EdgeIDs: make([]string, 0, len(edges))}
		for _, e := range edges {
			if err := rec.Delete(ctx, graph.KindEdge, e.ID); err != nil {
				return nil, err
			}
			data.EdgeIDs = append(data.EdgeIDs, e.ID)
		}
		for _, id := range n.BlockIDs {
			err := rec.Delete(ctx, graph.KindBlock, id)
			if err != nil && !errors.Is(err, graph.ErrNotFound) {
				return nil, err
			}
		}
		return data, rec.Delete(ctx, graph.KindNode, p.ID)
	})
}

// CreateEdge handles structure.createEdge.
func (h *Handlers) CreateEdge(ctx context.Context, _ command.Command, p CreateEdge) (command.Result, error) {
	for _, id := range []string{p.Source, p.Target} {
		if res, ok, err := h.require(ctx, graph.KindNode, id); !ok {
			return res, err
		}
	}
	e := p.edge()
	if e.ID == "" {
		e.ID = uuid.NewString()
	} else if res, ok, err := h.absent(ctx, graph.KindEdge, e.ID); !ok {
		return res, err
	}

	return h.record(ctx, func(rec *changelog.Recorder) (any, error) {
		return EdgeData{EdgeID: e.ID}, rec.Create(ctx, e)
	})
}

// DeleteEdge handles structure.deleteEdge.
func (h *Handlers) DeleteEdge(ctx context.Context, _ command.Command, p DeleteEdge) (command.Result, error) {
	if res, ok, err := h.require(ctx, graph.KindEdge, p.ID); !ok {
		return res, err
	}

	return h.record(ctx, func(rec *changelog.Recorder) (any, error) {
		return EdgeData{EdgeID: p.ID}, rec.Delete(ctx, graph.KindEdge, p.ID)
	})
}

// CreateBlock handles structure.createBlock. The block id is appended to the
// owning node, so the change log holds a create followed by an update.
func (h *Handlers) CreateBlock(ctx context.Context, _ command.Command, p CreateBlock) (command.Result, error) {
	if res, ok, err := h.require(ctx, graph.KindNode, p.NodeID); !ok {
		return res, err
	}
	owner, err := h.store.GetNode(ctx, p.NodeID)
	if err != nil {
		return command.Result{}, err
	}
	b := graph.Block{ID: p.ID, NodeID: p.NodeID, Kind: p.Kind, Content: p.Content, Data: p.Data}
	if b.ID == "" {
		b.ID = uuid.NewString()
	} else if res, ok, err := h.absent(ctx, graph.KindBlock, b.ID); !ok {
		return res, err
	}

	return h.record(ctx, func(rec *changelog.Recorder) (any, error) {
		if err := rec.Create(ctx, b); err != nil {
			return nil, err
		}
		ids := append(slices.Clone(owner.BlockIDs), b.ID)
		return BlockData{BlockID: b.ID, NodeID: p.NodeID}, rec.Update(ctx, graph.KindNode, p.NodeID, graph.Patch{"block_ids": ids})
	})
}

// UpdateNodePosition handles layout.updateNodePosition.
func (h *Handlers) UpdateNodePosition(ctx context.Context, _ command.Command, p UpdateNodePosition) (command.Result, error) {
	if res, ok, err := h.require(ctx, graph.KindNode, p.ID); !ok {
		return res, err
	}

	return h.record(ctx, func(rec *changelog.Recorder) (any, error) {
		pos := map[string]any{"x": p.Position.X, "y": p.Position.Y}
		return NodeData{NodeID: p.ID}, rec.Update(ctx, graph.KindNode, p.ID, graph.Patch{"position": pos})
	})
}

// UpdateView handles view.update. A missing view is created from the patch.
func (h *Handlers) UpdateView(ctx context.Context, _ command.Command, p UpdateView) (command.Result, error) {
	if p.ID == "" {
		return command.Fail("update view: empty id"), nil
	}
	exists, err := h.store.Exists(ctx, graph.KindView, p.ID)
	if err != nil {
		return command.Result{}, err
	}

	return h.record(ctx, func(rec *changelog.Recorder) (any, error) {
		if !exists {
			v := graph.View{ID: p.ID}
			if err := rec.Create(ctx, v); err != nil {
				return nil, err
			}
		}
		if len(p.Patch) > 0 {
			if err := rec.Update(ctx, graph.KindView, p.ID, p.Patch); err != nil {
				return nil, err
			}
		}
		return ViewData{ViewID: p.ID, Created: !exists}, nil
	})
}

// record runs fn with a fresh recorder. On error the recorded changes are
// rolled back so a failed command leaves the store untouched.
func (h *Handlers) record(ctx context.Context, fn func(rec *changelog.Recorder) (any, error)) (command.Result, error) {
	rec := changelog.NewRecorder(h.store)
	data, err := fn(rec)
	if err != nil {
		if rbErr := rec.Rollback(ctx); rbErr != nil {
			return command.Result{}, errors.Join(err, rbErr)
		}
		return command.Result{}, err
	}
	return command.Succeed(data, rec.Changes()...), nil
}

// require reports a failure result when the referenced entity is missing.
func (h *Handlers) require(ctx context.Context, kind graph.Kind, id string) (command.Result, bool, error) {
	if id == "" {
		return command.Fail("%s id is required", kind), false, nil
	}
	exists, err := h.store.Exists(ctx, kind, id)
	if err != nil {
		return command.Result{}, false, err
	}
	if !exists {
		return command.Fail("%s %q not found", kind, id), false, nil
	}
	return command.Result{}, true, nil
}

// absent reports a failure result when an entity with the id already exists.
func (h *Handlers) absent(ctx context.Context, kind graph.Kind, id string) (command.Result, bool, error) {
	exists, err := h.store.Exists(ctx, kind, id)
	if err != nil {
		return command.Result{}, false, err
	}
	if exists {
		return command.Fail("%s %q already exists", kind, id), false, nil
	}
	return command.Result{}, true, nil
}
