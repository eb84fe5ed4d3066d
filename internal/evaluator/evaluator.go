// Package evaluator defines the evaluation contract of the harness and the
// metric policies shipped with crucible: comparison against an alternate
// configuration, stability across configured variants, rule compliance, and
// accuracy against a ground truth.
//
// An evaluator receives the already-computed baseline output together with
// the executor that produced it, and may invoke that executor additional
// times with other configurations to build comparisons. Evaluators never
// mutate the executor, input, or baseline output, and never substitute a
// defaulted score for a real failure.
package evaluator

import (
	"context"
	"fmt"
	"strings"

	"github.com/harrison/crucible/internal/executor"
	"github.com/harrison/crucible/internal/models"
)

// Request carries the full context of one evaluation: the executor (for
// additional invocations), the run input, the baseline output, the effective
// executor and metric configurations, and the caller's evaluation params.
type Request struct {
	Executor       executor.Executor
	Input          any
	BaseOutput     any
	ExecutorConfig map[string]any
	MetricConfig   map[string]any
	Params         map[string]any
}

// Evaluator scores a baseline output, possibly using additional executions.
// The returned MetricOutput always has Score in [0, 1] and Details/Threshold
// sufficient to reconstruct how Status was derived.
type Evaluator interface {
	Evaluate(ctx context.Context, req Request) (*models.MetricOutput, error)
}

// EvaluationError represents a failure of the evaluation logic itself:
// required context missing from the metric configuration or evaluation
// params, or a comparison that cannot be computed. Sub-invocation failures
// are not wrapped in EvaluationError - they propagate as the executor's own
// error so callers can tell "the computation unit failed" apart from "the
// evaluation logic could not complete".
type EvaluationError struct {
	Evaluator string // Name of the evaluator that failed
	Message   string // Human-readable error message
	Err       error  // Underlying error (optional)
}

// NewEvaluationError creates a new EvaluationError.
func NewEvaluationError(evaluator, msg string, err error) *EvaluationError {
	return &EvaluationError{Evaluator: evaluator, Message: msg, Err: err}
}

// Error implements the error interface for EvaluationError.
func (e *EvaluationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("evaluator %s: %s", e.Evaluator, e.Message))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}
