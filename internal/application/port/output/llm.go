package output

import "context"

// LLMPort is the text-generation collaborator consumed by the planner. The
// engine treats it as a black box: system prompt plus user prompt in, raw
// completion out.
type LLMPort interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
