package structure

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/graphedit/core/changelog"
	"github.com/dmitrymomot/graphedit/core/event"
	"github.com/dmitrymomot/graphedit/core/graph"
	"github.com/dmitrymomot/graphedit/core/reversible"
)

// Domain events published by the reversible commands.
const (
	EventNodeCreated = "node.created"
	EventNodeUpdated = "node.updated"
	EventNodeDeleted = "node.deleted"
	EventEdgeCreated = "edge.created"
	EventEdgeDeleted = "edge.deleted"
)

// CreateNodeCommand is the reversible form of structure.createNode.
type CreateNodeCommand struct {
	reversible.Base
	store *graph.Store
	node  graph.Node
}

// NewCreateNode returns a reversible command adding a node.
func NewCreateNode(store *graph.Store, p CreateNode) *CreateNodeCommand {
	n := p.node()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return &CreateNodeCommand{Base: reversible.NewBase(TypeCreateNode), store: store, node: n}
}

// NodeID returns the id of the node the command creates.
func (c *CreateNodeCommand) NodeID() string { return c.node.ID }

func (c *CreateNodeCommand) CaptureUndoData(ctx context.Context) error {
	if c.node.ParentID == "" {
		return nil
	}
	if _, err := c.store.GetNode(ctx, c.node.ParentID); err != nil {
		return fmt.Errorf("parent: %w", err)
	}
	return nil
}

func (c *CreateNodeCommand) Execute(ctx context.Context) (reversible.Result, error) {
	if err := c.store.AddNode(ctx, c.node); err != nil {
		return reversible.Result{}, err
	}
	return reversible.Result{
		Data:   NodeData{NodeID: c.node.ID},
		Events: []event.Event{event.New(EventNodeCreated, c.node.ID, c.node)},
	}, nil
}

func (c *CreateNodeCommand) Undo(ctx context.Context) error {
	return c.store.RemoveNode(ctx, c.node.ID)
}

// UpdateNodeCommand is the reversible form of structure.updateNode.
// It captures only the fields the patch overwrites.
type UpdateNodeCommand struct {
	reversible.Base
	store    *graph.Store
	id       string
	patch    graph.Patch
	previous graph.Patch
}

// NewUpdateNode returns a reversible command merging patch onto a node.
func NewUpdateNode(store *graph.Store, p UpdateNode) *UpdateNodeCommand {
	return &UpdateNodeCommand{Base: reversible.NewBase(TypeUpdateNode), store: store, id: p.ID, patch: p.Patch.Clone()}
}

func (c *UpdateNodeCommand) CaptureUndoData(ctx context.Context) error {
	current, err := c.store.Snapshot(ctx, graph.KindNode, c.id)
	if err != nil {
		return err
	}
	c.previous = current.Pick(c.patch.Keys()...)
	delete(c.previous, "id")
	return nil
}

func (c *UpdateNodeCommand) Execute(ctx context.Context) (reversible.Result, error) {
	n, err := c.store.UpdateNode(ctx, c.id, c.patch)
	if err != nil {
		return reversible.Result{}, err
	}
	return reversible.Result{
		Data:   NodeData{NodeID: c.id},
		Events: []event.Event{event.New(EventNodeUpdated, c.id, n)},
	}, nil
}

func (c *UpdateNodeCommand) Undo(ctx context.Context) error {
	_, err := c.store.UpdateNode(ctx, c.id, c.previous)
	return err
}

// DeleteNodeCommand is the reversible form of structure.deleteNode.
// It captures the node, its connected edges and its blocks before deleting
// them, and undoes by reversing the recorded change log.
type DeleteNodeCommand struct {
	reversible.Base
	store   *graph.Store
	id      string
	node    graph.Node
	edges   []graph.Edge
	blocks  []graph.Block
	changes []graph.EntityChange
}

// NewDeleteNode returns a reversible command removing a node, its edges and its blocks.
func NewDeleteNode(store *graph.Store, id string) *DeleteNodeCommand {
	return &DeleteNodeCommand{Base: reversible.NewBase(TypeDeleteNode), store: store, id: id}
}

func (c *DeleteNodeCommand) CaptureUndoData(ctx context.Context) error {
	n, err := c.store.GetNode(ctx, c.id)
	if err != nil {
		return err
	}
	edges, err := c.store.EdgesOf(ctx, c.id)
	if err != nil {
		return err
	}
	blocks := make([]graph.Block, 0, len(n.BlockIDs))
	for _, id := range n.BlockIDs {
		b, err := c.store.GetBlock(ctx, id)
		if errors.Is(err, graph.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		blocks = append(blocks, b)
	}
	c.node, c.edges, c.blocks, c.changes = n, edges, blocks, nil
	return nil
}

// Execute deletes edges, then blocks, then the node. A failure part way
// rolls the already deleted entities back before returning.
func (c *DeleteNodeCommand) Execute(ctx context.Context) (reversible.Result, error) {
	rec := changelog.NewRecorder(c.store)
	data := NodeData{NodeID: c.id, EdgeIDs: make([]string, 0, len(c.edges))}
	events := make([]event.Event, 0, len(c.edges)+1)

	fail := func(err error) (reversible.Result, error) {
		if rbErr := rec.Rollback(ctx); rbErr != nil {
			return reversible.Result{}, errors.Join(err, rbErr)
		}
		return reversible.Result{}, err
	}

	for _, e := range c.edges {
		if err := rec.Delete(ctx, graph.KindEdge, e.ID); err != nil {
			return fail(err)
		}
		data.EdgeIDs = append(data.EdgeIDs, e.ID)
		events = append(events, event.New(EventEdgeDeleted, e.ID, e))
	}
	for _, b := range c.blocks {
		if err := rec.Delete(ctx, graph.KindBlock, b.ID); err != nil {
			return fail(err)
		}
	}
	if err := rec.Delete(ctx, graph.KindNode, c.id); err != nil {
		return fail(err)
	}

	c.changes = rec.Changes()
	events = append(events, event.New(EventNodeDeleted, c.id, c.node))
	return reversible.Result{Data: data, Events: events}, nil
}

// Undo restores the node before its blocks and edges. A failed undo
// leaves the store as it was after Execute, so it can be retried.
func (c *DeleteNodeCommand) Undo(ctx context.Context) error {
	return changelog.Reverse(ctx, c.store, c.changes)
}

// CreateEdgeCommand is the reversible form of structure.createEdge.
type CreateEdgeCommand struct {
	reversible.Base
	store *graph.Store
	edge  graph.Edge
}

// NewCreateEdge returns a reversible command connecting two nodes.
func NewCreateEdge(store *graph.Store, p CreateEdge) *CreateEdgeCommand {
	e := p.edge()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return &CreateEdgeCommand{Base: reversible.NewBase(TypeCreateEdge), store: store, edge: e}
}

// EdgeID returns the id of the edge the command creates.
func (c *CreateEdgeCommand) EdgeID() string { return c.edge.ID }

func (c *CreateEdgeCommand) CaptureUndoData(ctx context.Context) error {
	for _, id := range []string{c.edge.Source, c.edge.Target} {
		if _, err := c.store.GetNode(ctx, id); err != nil {
			return fmt.Errorf("endpoint: %w", err)
		}
	}
	return nil
}

func (c *CreateEdgeCommand) Execute(ctx context.Context) (reversible.Result, error) {
	if err := c.store.AddEdge(ctx, c.edge); err != nil {
		return reversible.Result{}, err
	}
	return reversible.Result{
		Data:   EdgeData{EdgeID: c.edge.ID},
		Events: []event.Event{event.New(EventEdgeCreated, c.edge.ID, c.edge)},
	}, nil
}

func (c *CreateEdgeCommand) Undo(ctx context.Context) error {
	return c.store.RemoveEdge(ctx, c.edge.ID)
}

// DeleteEdgeCommand is the reversible form of structure.deleteEdge.
type DeleteEdgeCommand struct {
	reversible.Base
	store *graph.Store
	id    string
	edge  graph.Edge
}

// NewDeleteEdge returns a reversible command removing an edge.
func NewDeleteEdge(store *graph.Store, id string) *DeleteEdgeCommand {
	return &DeleteEdgeCommand{Base: reversible.NewBase(TypeDeleteEdge), store: store, id: id}
}

func (c *DeleteEdgeCommand) CaptureUndoData(ctx context.Context) error {
	e, err := c.store.GetEdge(ctx, c.id)
	if err != nil {
		return err
	}
	c.edge = e
	return nil
}

func (c *DeleteEdgeCommand) Execute(ctx context.Context) (reversible.Result, error) {
	if err := c.store.RemoveEdge(ctx, c.id); err != nil {
		return reversible.Result{}, err
	}
	return reversible.Result{
		Data:   EdgeData{EdgeID: c.id},
		Events: []event.Event{event.New(EventEdgeDeleted, c.id, c.edge)},
	}, nil
}

func (c *DeleteEdgeCommand) Undo(ctx context.Context) error {
	return c.store.AddEdge(ctx, c.edge)
}
