package structure

import "github.com/dmitrymomot/graphedit/core/graph"

// Command types handled by this package.
const (
	TypeCreateNode         = "structure.createNode"
	TypeUpdateNode         = "structure.updateNode"
	TypeDeleteNode         = "structure.deleteNode"
	TypeCreateEdge         = "structure.createEdge"
	TypeDeleteEdge         = "structure.deleteEdge"
	TypeCreateBlock        = "structure.createBlock"
	TypeUpdateNodePosition = "layout.updateNodePosition"
	TypeUpdateView         = "view.update"
)

// CreateNode adds a node. An empty ID is generated.
type CreateNode struct {
	ID       string         `json:"id,omitempty"`
	Type     string         `json:"type,omitempty"`
	Title    string         `json:"title,omitempty"`
	Content  string         `json:"content,omitempty"`
	Position graph.Position `json:"position"`
	Size     *graph.Size    `json:"size,omitempty"`
	ParentID string         `json:"parent_id,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

func (p CreateNode) node() graph.Node {
	return graph.Node{
		ID:       p.ID,
		Type:     p.Type,
		Title:    p.Title,
		Content:  p.Content,
		Position: p.Position,
		Size:     p.Size,
		ParentID: p.ParentID,
		Data:     p.Data,
	}
}

// UpdateNode merges Patch onto a node. A nil value clears a field.
type UpdateNode struct {
	ID    string      `json:"id"`
	Patch graph.Patch `json:"patch"`
}

// DeleteNode removes a node with its edges and blocks.
type DeleteNode struct {
	ID string `json:"id"`
}

// CreateEdge connects two existing nodes. An empty ID is generated.
type CreateEdge struct {
	ID     string         `json:"id,omitempty"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Label  string         `json:"label,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

func (p CreateEdge) edge() graph.Edge {
	return graph.Edge{ID: p.ID, Source: p.Source, Target: p.Target, Label: p.Label, Data: p.Data}
}

// DeleteEdge removes an edge.
type DeleteEdge struct {
	ID string `json:"id"`
}

// CreateBlock adds a block to a node. An empty ID is generated.
type CreateBlock struct {
	ID      string         `json:"id,omitempty"`
	NodeID  string         `json:"node_id"`
	Kind    string         `json:"kind,omitempty"`
	Content string         `json:"content,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// UpdateNodePosition moves a node.
type UpdateNodePosition struct {
	ID       string         `json:"id"`
	Position graph.Position `json:"position"`
}

// UpdateView merges Patch onto a view, creating the view when absent.
type UpdateView struct {
	ID    string      `json:"id"`
	Patch graph.Patch `json:"patch"`
}

// NodeData is returned by node commands.
type NodeData struct {
	NodeID  string   `json:"node_id"`
	EdgeIDs []string `json:"edge_ids,omitempty"`
}

// EdgeData is returned by edge commands.
type EdgeData struct {
	EdgeID string `json:"edge_id"`
}

// BlockData is returned by block commands.
type BlockData struct {
	BlockID string `json:"block_id"`
	NodeID  string `json:"node_id"`
}

// ViewData is returned by view commands.
type ViewData struct {
	ViewID  string `json:"view_id"`
	Created bool   `json:"created,omitempty"`
}
