// Package history provides the bounded containers used to keep command history:
// a LIFO Stack that evicts its oldest entry when full, and an append-only Log
// that drops the oldest records once it reaches capacity.
//
// Both containers are safe for concurrent use.
//
// Example:
//
//	undo := history.NewStack[Entry](100)
//	undo.Push(entry)
//	last, ok := undo.Pop()
//
//	log := history.NewLog[Command](1000)
//	log.Append(cmd)
//	all := log.Items() // oldest first, copy
package history
