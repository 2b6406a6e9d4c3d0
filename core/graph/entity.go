package graph

// Kind identifies an entity collection in the store.
type Kind string

// Supported entity kinds.
const (
	KindNode  Kind = "node"
	KindEdge  Kind = "edge"
	KindBlock Kind = "block"
	KindView  Kind = "view"
)

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindNode, KindEdge, KindBlock, KindView}
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	switch k {
	case KindNode, KindEdge, KindBlock, KindView:
		return true
	}
	return false
}

// Entity is implemented by every stored entity type.
type Entity interface {
	EntityID() string
	EntityKind() Kind
}

// Position is a point on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the rendered size of a node.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is a vertex of the edited graph.
type Node struct {
	ID       string         `json:"id"`
	Type     string         `json:"type,omitempty"`
	Title    string         `json:"title,omitempty"`
	Content  string         `json:"content,omitempty"`
	Position Position       `json:"position"`
	Size     *Size          `json:"size,omitempty"`
	ParentID string         `json:"parent_id,omitempty"`
	BlockIDs []string       `json:"block_ids,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

func (n Node) EntityID() string { return n.ID }
func (n Node) EntityKind() Kind { return KindNode }

// Edge connects two nodes.
type Edge struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Label  string         `json:"label,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

func (e Edge) EntityID() string { return e.ID }
func (e Edge) EntityKind() Kind { return KindEdge }

// Block is a content unit attached to a node.
type Block struct {
	ID      string         `json:"id"`
	NodeID  string         `json:"node_id"`
	Kind    string         `json:"kind,omitempty"`
	Content string         `json:"content,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func (b Block) EntityID() string { return b.ID }
func (b Block) EntityKind() Kind { return KindBlock }

// View is a saved viewport over the graph.
type View struct {
	ID      string         `json:"id"`
	Name    string         `json:"name,omitempty"`
	Zoom    float64        `json:"zoom,omitempty"`
	Offset  Position       `json:"offset"`
	NodeIDs []string       `json:"node_ids,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func (v View) EntityID() string { return v.ID }
func (v View) EntityKind() Kind { return KindView }

// newEntity returns a pointer to the zero value of the kind's entity type.
func newEntity(kind Kind) (Entity, error) {
	switch kind {
	case KindNode:
		return &Node{}, nil
	case KindEdge:
		return &Edge{}, nil
	case KindBlock:
		return &Block{}, nil
	case KindView:
		return &View{}, nil
	}
	return nil, ErrUnknownKind
}
