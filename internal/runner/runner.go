// Package runner contains the orchestration core of crucible: the
// TestRunner that merges configurations, obtains a baseline output from the
// executor, hands the full context to the evaluator, and assembles the
// resulting record.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/crucible/internal/config"
	"github.com/harrison/crucible/internal/evaluator"
	"github.com/harrison/crucible/internal/executor"
	"github.com/harrison/crucible/internal/models"
)

// Logger receives run lifecycle events. The runner works without one.
type Logger interface {
	RunStarted(runID string)
	RunCompleted(runID string, status models.MetricStatus, score float64, duration time.Duration)
	RunFailed(runID string, err error)
}

// TestRunner holds one executor, one evaluator, and a default TestConfig,
// and orchestrates evaluation runs over them. A single TestRunner is safe
// for concurrent Run calls: it never mutates its own configuration, and the
// executor and evaluator contracts require reentrancy.
type TestRunner struct {
	executor  executor.Executor
	evaluator evaluator.Evaluator
	config    models.TestConfig
	logger    Logger
}

// NewTestRunner creates a TestRunner over the given components. The default
// config is validated up front so structural problems surface at
// construction rather than on the first run.
func NewTestRunner(exec executor.Executor, eval evaluator.Evaluator, cfg models.TestConfig) (*TestRunner, error) {
	if exec == nil {
		return nil, fmt.Errorf("executor must not be nil")
	}
	if eval == nil {
		return nil, fmt.Errorf("evaluator must not be nil")
	}
	if err := config.ValidateTestConfig(cfg); err != nil {
		return nil, err
	}
	return &TestRunner{
		executor:  exec,
		evaluator: eval,
		config:    cfg,
	}, nil
}

// SetLogger attaches a lifecycle logger. Call before the first Run; the
// runner itself is otherwise immutable.
func (r *TestRunner) SetLogger(l Logger) {
	r.logger = l
}

// Run executes one evaluation: it merges the default config with the
// per-run override, invokes the executor once for the baseline output,
// invokes the evaluator with the full context, and assembles an immutable
// TestResult.
//
// The contract is all-or-nothing: an ExecutionError from the baseline,
// any error from the evaluator, or a ConfigError from the override aborts
// the run and propagates unmodified - no partial TestResult is produced.
// The runner performs no retries; retry policy belongs to executors and
// evaluators, which know whether a failure is transient. Timeouts are the
// caller's responsibility, applied through ctx.
func (r *TestRunner) Run(ctx context.Context, input any, params map[string]any, override *models.TestConfig) (*models.TestResult, error) {
	runID := uuid.NewString()
	started := time.Now()
	if r.logger != nil {
		r.logger.RunStarted(runID)
	}

	if override != nil {
		if err := config.ValidateTestConfig(*override); err != nil {
			return nil, r.failRun(runID, err)
		}
	}
	effective := config.MergeTestConfig(r.config, override)

	baseOutput, err := r.executor.Execute(ctx, input, effective.ExecutorConfig)
	if err != nil {
		return nil, r.failRun(runID, err)
	}

	if params == nil {
		params = map[string]any{}
	}
	metricOutput, err := r.evaluator.Evaluate(ctx, evaluator.Request{
		Executor:       r.executor,
		Input:          input,
		BaseOutput:     baseOutput,
		ExecutorConfig: effective.ExecutorConfig,
		MetricConfig:   effective.MetricConfig,
		Params:         params,
	})
	if err != nil {
		return nil, r.failRun(runID, err)
	}

	completed := time.Now()
	result := &models.TestResult{
		MetricOutput:   *metricOutput,
		ExecutorOutput: baseOutput,
		ConfigsUsed:    effective,
		Metadata: map[string]string{
			"run_id":         runID,
			"executor_type":  fmt.Sprintf("%T", r.executor),
			"evaluator_type": fmt.Sprintf("%T", r.evaluator),
		},
		Timestamp: completed,
	}

	if r.logger != nil {
		r.logger.RunCompleted(runID, metricOutput.Status, metricOutput.Score, completed.Sub(started))
	}
	return result, nil
}

// failRun reports the failure to the logger and returns err unchanged.
func (r *TestRunner) failRun(runID string, err error) error {
	if r.logger != nil {
		r.logger.RunFailed(runID, err)
	}
	return err
}
