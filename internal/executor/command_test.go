package executor

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available in PATH", name)
	}
}

func TestCommandExecutorEchoesStdin(t *testing.T) {
	requireBinary(t, "cat")

	cmdExec := NewCommandExecutor("cat")

	out, err := cmdExec.Execute(context.Background(), "hello pipeline", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello pipeline" {
		t.Errorf("output = %q, want %q", out, "hello pipeline")
	}
}

func TestCommandExecutorConfigArgs(t *testing.T) {
	requireBinary(t, "sh")

	cmdExec := NewCommandExecutor("sh", "-c")

	config := map[string]any{
		"args": []any{"tr a-z A-Z"},
	}

	out, err := cmdExec.Execute(context.Background(), "shout", config)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "SHOUT" {
		t.Errorf("output = %q, want SHOUT", out)
	}
}

func TestCommandExecutorFailure(t *testing.T) {
	cmdExec := NewCommandExecutor("/nonexistent/binary")

	_, err := cmdExec.Execute(context.Background(), "input", nil)
	if err == nil {
		t.Fatal("Execute() with missing binary should return error")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.Executor != "command" {
		t.Errorf("Executor = %q, want command", execErr.Executor)
	}
}

func TestCommandExecutorInvalidArgsConfig(t *testing.T) {
	cmdExec := NewCommandExecutor("cat")

	_, err := cmdExec.Execute(context.Background(), "input", map[string]any{"args": "not-a-list"})
	if err == nil {
		t.Error("Execute() with non-sequence args should return error")
	}
}

func TestFuncExecutor(t *testing.T) {
	fn := FuncExecutor(func(ctx context.Context, input any, config map[string]any) (any, error) {
		return input.(string) + "!", nil
	})

	out, err := fn.Execute(context.Background(), "done", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "done!" {
		t.Errorf("output = %v, want done!", out)
	}
}
