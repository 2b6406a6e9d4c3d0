// Package planner turns natural-language instructions into graph commands.
//
// A Planner asks a language model for a JSON array of operations. Two
// implementations are provided: OpenAI (chat completions) and Google
// (Gemini GenerateContent, on the Gemini API or Vertex AI). Both tolerate
// markdown code fences and prose around the array.
//
//	p, err := planner.NewOpenAI(os.Getenv("OPENAI_API_KEY"))
//	if err != nil {
//		return err
//	}
//
//	snap, _ := engine.Store().Export(ctx)
//	steps, err := planner.NewRunner(engine).Apply(ctx, p,
//		"add a review step after drafting",
//		planner.Summarize(snap, engine.Commands()),
//	)
//
// # Operations and references
//
// Each operation names a command type and its payload. An operation may set
// Ref; the id its command reports (node_id, edge_id and so on) is then
// available to later operations as "$ref":
//
//	[
//	  {"type": "structure.createNode", "params": {"title": "Draft"}, "ref": "draft"},
//	  {"type": "structure.createNode", "params": {"title": "Review"}, "ref": "review"},
//	  {"type": "structure.createEdge", "params": {"source": "$draft", "target": "$review"}}
//	]
//
// # Runner
//
// Runner dispatches operations one at a time with command.SourceAI, so each
// lands in the undo history as its own entry and passes through the same
// middleware as user commands. A failed or unresolvable operation is
// recorded in its Step and the run continues.
package planner
