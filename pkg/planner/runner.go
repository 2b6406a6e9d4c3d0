package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/graphedit/core/command"
	"github.com/dmitrymomot/graphedit/core/logger"
)

// Dispatcher runs a single command. *graphedit.Engine satisfies it.
type Dispatcher interface {
	RunCommand(ctx context.Context, cmdType string, payload any, source command.Source) command.Result
}

// Step pairs an operation with the result of running it.
type Step struct {
	Operation Operation      `json:"operation"`
	Result    command.Result `json:"result"`
}

// Runner feeds operations through a Dispatcher one at a time, resolving
// "$name" parameters against ids produced by earlier operations.
type Runner struct {
	dispatcher Dispatcher
	source     command.Source
	logger     *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithSource overrides the command source. Defaults to command.SourceAI.
func WithSource(src command.Source) RunnerOption {
	return func(r *Runner) {
		if src.Valid() {
			r.source = src
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner over d.
func NewRunner(d Dispatcher, opts ...RunnerOption) *Runner {
	r := &Runner{
		dispatcher: d,
		source:     command.SourceAI,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes ops in order. A failing operation does not stop the run;
// every operation gets a Step.
func (r *Runner) Run(ctx context.Context, ops []Operation) []Step {
	refs := make(map[string]string)
	steps := make([]Step, 0, len(ops))

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			steps = append(steps, Step{Operation: op, Result: command.Fail("%v", err)})
			continue
		}

		params, err := resolve(op.Params, refs)
		if err != nil {
			r.logger.WarnContext(ctx, "operation skipped",
				logger.CommandType(op.Type),
				logger.Error(err),
			)
			steps = append(steps, Step{Operation: op, Result: command.Fail("%v", err)})
			continue
		}

		res := r.dispatcher.RunCommand(ctx, op.Type, params, r.source)
		if res.Success && op.Ref != "" {
			if id := resultID(res.Data); id != "" {
				refs[op.Ref] = id
			}
		}
		steps = append(steps, Step{Operation: op, Result: res})
	}
	return steps
}

// Apply plans instruction with p and runs the resulting operations.
func (r *Runner) Apply(ctx context.Context, p Planner, instruction, summary string) ([]Step, error) {
	ops, err := p.Plan(ctx, instruction, summary)
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "plan received",
		logger.Count("operations", len(ops)),
		logger.Source(string(r.source)),
	)
	return r.Run(ctx, ops), nil
}

// resolve returns a copy of params with "$name" strings replaced by ids.
func resolve(params map[string]any, refs map[string]string) (map[string]any, error) {
	if params == nil {
		return map[string]any{}, nil
	}
	v, err := resolveValue(params, refs)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

func resolveValue(v any, refs map[string]string) (any, error) {
	switch t := v.(type) {
	case string:
		name, ok := strings.CutPrefix(t, "$")
		if !ok || name == "" {
			return t, nil
		}
		id, ok := refs[name]
		if !ok {
			return nil, fmt.Errorf("%w: $%s", ErrUnresolvedReference, name)
		}
		return id, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			r, err := resolveValue(item, refs)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			r, err := resolveValue(item, refs)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

// Block results also carry node_id, so the owning entity key is checked last.
var idKeys = []string{"id", "block_id", "edge_id", "view_id", "node_id"}

// resultID finds the id a command reported in its result data.
func resultID(data any) string {
	if data == nil {
		return ""
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	for _, k := range idKeys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
