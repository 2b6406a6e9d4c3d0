package graph

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when inserting an entity whose id is taken.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidEntity is returned when a snapshot or patch does not decode into the entity shape.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUnknownKind is returned for entity kinds the store does not manage.
	ErrUnknownKind = errors.New("unknown entity kind")
)
