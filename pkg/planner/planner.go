package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Operation is one step of a plan: a command type, its parameters, and an
// optional ref naming the id the command produces.
type Operation struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
	Ref    string         `json:"ref,omitempty"`
}

// Planner turns a natural-language instruction into operations.
type Planner interface {
	// Plan returns the operations for instruction. summary describes the
	// current graph and the available command types.
	Plan(ctx context.Context, instruction, summary string) ([]Operation, error)
}

// ParseOperations extracts a JSON array of operations from model output.
// Markdown code fences and text around the array are tolerated, as is an
// object of the form {"operations": [...]}.
func ParseOperations(text string) ([]Operation, error) {
	text = stripFences(strings.TrimSpace(text))
	if text == "" {
		return nil, ErrEmptyResponse
	}

	if strings.HasPrefix(text, "{") {
		var wrapped struct {
			Operations []Operation `json:"operations"`
		}
		if err := json.Unmarshal([]byte(text), &wrapped); err == nil && wrapped.Operations != nil {
			return validate(wrapped.Operations)
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON array found", ErrInvalidPlan)
	}

	var ops []Operation
	if err := json.Unmarshal([]byte(text[start:end+1]), &ops); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	return validate(ops)
}

func validate(ops []Operation) ([]Operation, error) {
	for i, op := range ops {
		if strings.TrimSpace(op.Type) == "" {
			return nil, fmt.Errorf("%w: operation %d has no type", ErrInvalidPlan, i)
		}
	}
	return ops, nil
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// Drop the opening fence line, which may carry a language tag.
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		return ""
	}
	if i := strings.LastIndex(text, "```"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
