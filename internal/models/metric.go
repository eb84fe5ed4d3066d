// Package models contains the shared data types for evaluation runs:
// configurations, metric outputs, and result records. All types in this
// package are treated as immutable values once constructed - components
// that need a modified configuration build a fresh one instead of mutating.
package models

import "fmt"

// MetricStatus classifies an evaluation outcome.
type MetricStatus string

const (
	// StatusPassed indicates the score met the evaluator's threshold.
	StatusPassed MetricStatus = "passed"
	// StatusWarning indicates the score fell inside the warning band below the threshold.
	StatusWarning MetricStatus = "warning"
	// StatusFailed indicates the score fell below the warning band.
	StatusFailed MetricStatus = "failed"
	// StatusInconclusive indicates the evaluator could not classify the outcome.
	StatusInconclusive MetricStatus = "inconclusive"
)

// String returns the string representation of MetricStatus.
func (s MetricStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the four defined statuses.
func (s MetricStatus) IsValid() bool {
	switch s {
	case StatusPassed, StatusWarning, StatusFailed, StatusInconclusive:
		return true
	}
	return false
}

// MetricOutput is the structured result of one evaluation.
//
// Score is always in [0, 1]. Status must be derivable from Score and
// Threshold by a rule each evaluator documents; Details carries whatever
// diagnostic context is needed to reconstruct that derivation.
// Visualization is an opaque payload for external rendering layers and is
// never inspected by the harness.
type MetricOutput struct {
	Score         float64
	Status        MetricStatus
	Visualization any
	Details       map[string]any
	Threshold     map[string]float64
}

// Validate checks the structural invariants of a MetricOutput.
func (m *MetricOutput) Validate() error {
	if m.Score < 0 || m.Score > 1 {
		return fmt.Errorf("metric score %v outside [0, 1]", m.Score)
	}
	if !m.Status.IsValid() {
		return fmt.Errorf("unknown metric status %q", m.Status)
	}
	return nil
}
