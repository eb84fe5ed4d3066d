package executor

import (
	"fmt"
	"strings"
	"time"
)

// ExecutionError represents a failure to produce an output for a given
// input and configuration: an invalid configuration for this backend, a
// backend failure, or a timeout. It propagates to the caller unmodified -
// executors never absorb a failure into a degraded output.
type ExecutionError struct {
	Executor  string    // Name of the executor that failed
	Message   string    // Human-readable error message
	Err       error     // Underlying error (optional)
	Timestamp time.Time // When the error occurred
}

// NewExecutionError creates a new ExecutionError with the current timestamp.
func NewExecutionError(executor, msg string, err error) *ExecutionError {
	return &ExecutionError{
		Executor:  executor,
		Message:   msg,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface for ExecutionError.
func (e *ExecutionError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("executor %s: %s", e.Executor, e.Message))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}
