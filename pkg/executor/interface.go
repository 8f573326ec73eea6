package executor

import "context"

// Executor runs external media tools. Stdout is returned; the tail of stderr
// is folded into the error on failure.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	LookPath(name string) (string, error)
}
