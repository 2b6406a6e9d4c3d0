package planner

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/graphedit/core/graph"
)

const systemPrompt = `You edit a graph of nodes, edges, blocks and views by emitting commands.
Reply with a JSON array only. Each element is {"type": string, "params": object, "ref": string}.
"type" must be one of the available commands. "params" is the command payload.
Set "ref" to a short name when later operations need the id this operation creates,
and refer to it from later params as "$name". Never invent ids for entities you create.`

// SystemPrompt returns the instruction sent to the model.
func SystemPrompt() string { return systemPrompt }

// Summarize describes the graph and the available commands for the model.
func Summarize(snap graph.Snapshot, commands []string) string {
	var b strings.Builder

	b.WriteString("Available commands:\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	fmt.Fprintf(&b, "\nNodes (%d):\n", len(snap.Nodes))
	for _, n := range snap.Nodes {
		fmt.Fprintf(&b, "- %s", n.ID)
		if n.Title != "" {
			fmt.Fprintf(&b, " %q", n.Title)
		}
		if n.Type != "" {
			fmt.Fprintf(&b, " type=%s", n.Type)
		}
		fmt.Fprintf(&b, " at (%g, %g)\n", n.Position.X, n.Position.Y)
	}

	fmt.Fprintf(&b, "\nEdges (%d):\n", len(snap.Edges))
	for _, e := range snap.Edges {
		fmt.Fprintf(&b, "- %s: %s -> %s", e.ID, e.Source, e.Target)
		if e.Label != "" {
			fmt.Fprintf(&b, " %q", e.Label)
		}
		b.WriteByte('\n')
	}

	if len(snap.Blocks) > 0 {
		fmt.Fprintf(&b, "\nBlocks (%d):\n", len(snap.Blocks))
		for _, bl := range snap.Blocks {
			fmt.Fprintf(&b, "- %s on %s kind=%s\n", bl.ID, bl.NodeID, bl.Kind)
		}
	}
	return b.String()
}

func userPrompt(instruction, summary string) string {
	if summary == "" {
		return instruction
	}
	return summary + "\nInstruction:\n" + instruction
}
