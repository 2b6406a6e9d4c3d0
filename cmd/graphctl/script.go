package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrymomot/graphedit/core/command"
)

// Script step types handled by the CLI itself.
const (
	stepUndo = "undo"
	stepRedo = "redo"
)

// step is one line of an operation script.
type step struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Source  command.Source  `json:"source,omitempty"`
}

// outcome is printed for every script step.
type outcome struct {
	Step   int            `json:"step"`
	Type   string         `json:"type"`
	Result command.Result `json:"result"`
}

// editor is the subset of the engine a script drives.
type editor interface {
	RunCommand(ctx context.Context, cmdType string, payload any, source command.Source) command.Result
	Undo(ctx context.Context) command.Result
	Redo(ctx context.Context) command.Result
}

func readScript(r io.Reader) ([]step, error) {
	var steps []step
	if err := json.NewDecoder(r).Decode(&steps); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	for i, s := range steps {
		if s.Type == "" {
			return nil, fmt.Errorf("decode script: step %d has no type", i)
		}
		if s.Source != "" && !s.Source.Valid() {
			return nil, fmt.Errorf("decode script: step %d has unknown source %q", i, s.Source)
		}
	}
	return steps, nil
}

// runScript executes steps in order. Failed steps are reported, not fatal.
func runScript(ctx context.Context, ed editor, steps []step) []outcome {
	out := make([]outcome, 0, len(steps))
	for i, s := range steps {
		var res command.Result
		switch s.Type {
		case stepUndo:
			res = ed.Undo(ctx)
		case stepRedo:
			res = ed.Redo(ctx)
		default:
			src := s.Source
			if src == "" {
				src = command.SourceUser
			}
			payload := s.Payload
			if len(payload) == 0 {
				payload = json.RawMessage(`{}`)
			}
			res = ed.RunCommand(ctx, s.Type, payload, src)
		}
		out = append(out, outcome{Step: i, Type: s.Type, Result: res})
	}
	return out
}
