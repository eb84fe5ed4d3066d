package evaluator

import (
	"context"

	"github.com/harrison/crucible/internal/config"
	"github.com/harrison/crucible/internal/models"
)

// ComparisonEvaluator executes the input once more under an alternate
// configuration and scores the similarity of the two outputs.
//
// Metric config keys: comparison_config (mapping, required - merged over the
// effective executor config for the second execution), min_similarity
// (default 0.8), warning_band (default 0.1).
//
// Status rule: similarity >= min_similarity is PASSED, within warning_band
// below it is WARNING, lower is FAILED.
type ComparisonEvaluator struct{}

// NewComparisonEvaluator creates a ComparisonEvaluator.
func NewComparisonEvaluator() *ComparisonEvaluator {
	return &ComparisonEvaluator{}
}

// Evaluate implements Evaluator.
func (e *ComparisonEvaluator) Evaluate(ctx context.Context, req Request) (*models.MetricOutput, error) {
	raw, ok := req.MetricConfig["comparison_config"]
	if !ok {
		return nil, NewEvaluationError("comparison", "metric config key \"comparison_config\" is required", nil)
	}
	cmpConfig, ok := raw.(map[string]any)
	if !ok {
		return nil, NewEvaluationError("comparison", "metric config key \"comparison_config\" must be a mapping", nil)
	}

	minSimilarity, err := thresholdValue(req.MetricConfig, "min_similarity", 0.8)
	if err != nil {
		return nil, NewEvaluationError("comparison", "invalid threshold", err)
	}
	band, err := thresholdValue(req.MetricConfig, "warning_band", defaultWarningBand)
	if err != nil {
		return nil, NewEvaluationError("comparison", "invalid threshold", err)
	}

	altConfig := config.Merge(req.ExecutorConfig, cmpConfig)
	altOutput, err := req.Executor.Execute(ctx, req.Input, altConfig)
	if err != nil {
		// Executor failures keep their own identity
		return nil, err
	}

	score := clamp01(Similarity(req.BaseOutput, altOutput))

	return &models.MetricOutput{
		Score:  score,
		Status: statusFor(score, minSimilarity, band),
		Details: map[string]any{
			"comparison_config": cmpConfig,
			"comparison_output": altOutput,
		},
		Threshold: map[string]float64{
			"min_similarity": minSimilarity,
			"warning_band":   band,
		},
	}, nil
}
