// Package structure provides the built-in graph editing commands.
//
// Every family is available through both undo mechanisms:
//
//   - as registry handlers (Register) whose changes are recorded with a
//     changelog.Recorder and undone by the command executor;
//   - as self-describing reversible commands (NewCreateNode, NewDeleteNode...)
//     run by a reversible.Manager, which publish node.* and edge.* domain events.
//
// Payloads are closed structs per command type. Handlers report validation
// problems (empty ids, missing referenced entities) as failure results.
package structure
