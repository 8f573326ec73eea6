package llm

import "context"

// Client sends one prompt to the reasoning service and returns its text reply.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single structured prompt.
type Request struct {
	// System carries the standing instruction (output schema, role).
	System string
	// Prompt carries the per-call material (transcript, outline).
	Prompt string
	// JSON asks the service for an application/json reply.
	JSON bool
}

// Func adapts a plain function to Client.
type Func func(ctx context.Context, req Request) (string, error)

func (f Func) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
