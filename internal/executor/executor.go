// Package executor defines the execution contract of the harness - mapping
// an (input, configuration) pair to an output - together with the concrete
// backends shipped with crucible: OpenAI chat completions, a local Ollama
// instance, an external command, and an in-process function.
//
// Implementations must be safe for concurrent reentrant use: they hold only
// configuration-independent state (client handles, base URLs) and never
// mutate the input or configuration they are given. Determinism is not
// required, but every failure must surface as a *ExecutionError rather than
// a degraded output.
package executor

import "context"

// Executor maps an input and a configuration to an output. The context
// carries the caller's cancellation or timeout signal; Execute is the one
// operation in the harness expected to block on backend I/O.
type Executor interface {
	Execute(ctx context.Context, input any, config map[string]any) (any, error)
}

// FuncExecutor adapts a plain function to the Executor interface. It is the
// building block for embedding crucible around local computations and for
// tests that need a deterministic backend.
type FuncExecutor func(ctx context.Context, input any, config map[string]any) (any, error)

// Execute implements Executor by calling the wrapped function.
func (f FuncExecutor) Execute(ctx context.Context, input any, config map[string]any) (any, error) {
	return f(ctx, input, config)
}
