package executor

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// CommandExecutor runs inputs through an external command, writing the
// prompt to stdin and returning stdout as the output. It suits CLI-wrapped
// models and scripted backends.
//
// Recognized config keys: args (sequence of strings appended to the base
// arguments), env (sequence of KEY=VALUE strings added to the environment).
type CommandExecutor struct {
	Path     string   // Binary to invoke
	BaseArgs []string // Arguments always passed before config-supplied ones
}

// NewCommandExecutor creates an executor for the given binary.
func NewCommandExecutor(path string, baseArgs ...string) *CommandExecutor {
	return &CommandExecutor{Path: path, BaseArgs: baseArgs}
}

// Execute implements Executor. Cancellation of ctx kills the child process.
func (e *CommandExecutor) Execute(ctx context.Context, input any, config map[string]any) (any, error) {
	prompt, err := promptFrom(input)
	if err != nil {
		return nil, NewExecutionError("command", "invalid input", err)
	}

	args := append([]string{}, e.BaseArgs...)
	extra, err := stringSliceValue(config, "args")
	if err != nil {
		return nil, NewExecutionError("command", "invalid config", err)
	}
	args = append(args, extra...)

	env, err := stringSliceValue(config, "env")
	if err != nil {
		return nil, NewExecutionError("command", "invalid config", err)
	}

	cmd := exec.CommandContext(ctx, e.Path, args...)
	cmd.Stdin = strings.NewReader(prompt)
	if len(env) > 0 {
		cmd.Env = append(cmd.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := "command failed"
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg = "command failed: " + s
		}
		return nil, NewExecutionError("command", msg, err)
	}

	return stdout.String(), nil
}

// stringSliceValue returns config[key] as a slice of strings, or nil if
// absent. YAML sequences decode as []any, so each element is checked.
func stringSliceValue(config map[string]any, key string) ([]string, error) {
	raw, ok := config[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, NewExecutionError("command",
			"config key \""+key+"\" must be a sequence of strings", nil)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, NewExecutionError("command",
				"config key \""+key+"\" must contain only strings", nil)
		}
		out = append(out, s)
	}
	return out, nil
}
