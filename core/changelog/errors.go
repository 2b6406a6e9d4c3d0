package changelog

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/graphedit/core/graph"
)

var (
	// ErrMissingSnapshot is returned when a change lacks the before/after state its operation needs.
	ErrMissingSnapshot = errors.New("change is missing its snapshot")

	// ErrUnsupportedChange is returned for change types the algorithm cannot dispatch.
	ErrUnsupportedChange = errors.New("unsupported change type")
)

// Error reports the change at which Apply or Reverse stopped.
type Error struct {
	Op     string // "apply" or "reverse"
	Index  int    // position of the failing change in the original log
	Change graph.EntityChange
	Err    error

	// Compensation holds the error of the rollback attempt, nil when the store
	// was restored successfully.
	Compensation error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s change %d (%s %s %q): %v",
		e.Op, e.Index, e.Change.Type, e.Change.EntityType, e.Change.EntityID, e.Err)
	if e.Compensation != nil {
		msg += fmt.Sprintf("; compensation failed: %v", e.Compensation)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
