package graph

// ChangeType is the kind of mutation recorded in an EntityChange.
type ChangeType string

// Supported change types.
const (
	ChangeCreate ChangeType = "create"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// EntityChange records one mutation of one entity. Before is set for update
// and delete, After for create and update.
type EntityChange struct {
	Type       ChangeType `json:"type"`
	EntityType Kind       `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Before     Patch      `json:"before,omitempty"`
	After      Patch      `json:"after,omitempty"`
}

// Created builds a create change.
func Created(kind Kind, id string, after Patch) EntityChange {
	return EntityChange{Type: ChangeCreate, EntityType: kind, EntityID: id, After: after}
}

// Updated builds an update change.
func Updated(kind Kind, id string, before, after Patch) EntityChange {
	return EntityChange{Type: ChangeUpdate, EntityType: kind, EntityID: id, Before: before, After: after}
}

// Deleted builds a delete change.
func Deleted(kind Kind, id string, before Patch) EntityChange {
	return EntityChange{Type: ChangeDelete, EntityType: kind, EntityID: id, Before: before}
}
