// Package reversible implements self-describing commands: each command
// captures the state it needs before executing and undoes itself without a
// generic change log.
//
// A Manager runs commands, keeps its own bounded undo and redo stacks and
// publishes the domain events a command reports to an event.Bus.
//
//	mgr := reversible.NewManager(reversible.WithBus(bus))
//
//	res, err := mgr.Execute(ctx, structure.NewDeleteNode(store, "n1"))
//	cmd, err := mgr.Undo(ctx)
//	res, err = mgr.Redo(ctx)
//
// CaptureUndoData always runs before Execute, including on redo, so a command
// snapshots the current state each time it is applied.
//
// Execute, Undo and Redo are serialized. A command whose Undo (or redo
// Execute) fails is returned to the stack it came from.
package reversible
