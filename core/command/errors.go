package command

import "errors"

var (
	// ErrHandlerNotFound is returned when a command has no registered handler.
	ErrHandlerNotFound = errors.New("no handler registered for command")

	// ErrInvalidPayload is returned when a payload cannot be converted to the handler's type.
	ErrInvalidPayload = errors.New("invalid command payload")

	// ErrPermissionDenied is returned when the permission middleware rejects a command.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrHandlerPanicked wraps a panic recovered from a handler or middleware.
	ErrHandlerPanicked = errors.New("command handler panicked")

	// ErrNothingToUndo is reported when the undo stack is empty.
	ErrNothingToUndo = errors.New("Nothing to undo")

	// ErrNothingToRedo is reported when the redo stack is empty.
	ErrNothingToRedo = errors.New("Nothing to redo")

	// ErrNoChanges is reported when an undo/redo entry carries no change log.
	ErrNoChanges = errors.New("command has no recorded changes")
)
