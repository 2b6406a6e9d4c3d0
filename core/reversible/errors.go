package reversible

import "errors"

var (
	// ErrNothingToUndo is returned when the undo stack is empty.
	ErrNothingToUndo = errors.New("Nothing to undo")

	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = errors.New("Nothing to redo")

	// ErrCommandPanicked wraps a panic recovered from a command.
	ErrCommandPanicked = errors.New("reversible command panicked")

	// ErrNilCommand is returned when Execute receives a nil command.
	ErrNilCommand = errors.New("reversible command is nil")
)
