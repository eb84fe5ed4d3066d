package evaluator

import (
	"context"
	"sync"

	"github.com/harrison/crucible/internal/config"
	"github.com/harrison/crucible/internal/models"
)

// StabilityEvaluator executes the input across N configured variant
// configurations and scores output consistency as the mean pairwise
// similarity over all outputs, baseline included. The aggregation ranges
// over unordered pairs of a symmetric similarity, so the score is invariant
// to the order in which the executions complete.
//
// Metric config keys: variants (sequence of mappings, required - each merged
// over the effective executor config), min_stability (default 0.8),
// warning_band (default 0.1).
//
// Status rule: stability >= min_stability is PASSED, within warning_band
// below it is WARNING, lower is FAILED.
type StabilityEvaluator struct{}

// NewStabilityEvaluator creates a StabilityEvaluator.
func NewStabilityEvaluator() *StabilityEvaluator {
	return &StabilityEvaluator{}
}

// Evaluate implements Evaluator. Variant executions are issued concurrently;
// outputs are collected by variant index, so completion order cannot affect
// the result.
func (e *StabilityEvaluator) Evaluate(ctx context.Context, req Request) (*models.MetricOutput, error) {
	variants, err := variantConfigs(req.MetricConfig)
	if err != nil {
		return nil, err
	}

	minStability, err := thresholdValue(req.MetricConfig, "min_stability", 0.8)
	if err != nil {
		return nil, NewEvaluationError("stability", "invalid threshold", err)
	}
	band, err := thresholdValue(req.MetricConfig, "warning_band", defaultWarningBand)
	if err != nil {
		return nil, NewEvaluationError("stability", "invalid threshold", err)
	}

	outputs := make([]any, len(variants))
	errs := make([]error, len(variants))

	var wg sync.WaitGroup
	for i, variant := range variants {
		wg.Add(1)
		go func(i int, variant map[string]any) {
			defer wg.Done()
			variantConfig := config.Merge(req.ExecutorConfig, variant)
			outputs[i], errs[i] = req.Executor.Execute(ctx, req.Input, variantConfig)
		}(i, variant)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			// Executor failures keep their own identity
			return nil, err
		}
	}

	all := append([]any{req.BaseOutput}, outputs...)
	score := clamp01(meanPairwiseSimilarity(all))

	return &models.MetricOutput{
		Score:  score,
		Status: statusFor(score, minStability, band),
		Details: map[string]any{
			"executions":      len(all),
			"variant_outputs": outputs,
		},
		Threshold: map[string]float64{
			"min_stability": minStability,
			"warning_band":  band,
		},
	}, nil
}

// variantConfigs extracts and validates the variants sequence from the
// metric configuration.
func variantConfigs(metricConfig map[string]any) ([]map[string]any, error) {
	raw, ok := metricConfig["variants"]
	if !ok {
		return nil, NewEvaluationError("stability", "metric config key \"variants\" is required", nil)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, NewEvaluationError("stability", "metric config key \"variants\" must be a sequence of mappings", nil)
	}
	if len(items) == 0 {
		return nil, NewEvaluationError("stability", "metric config key \"variants\" must not be empty", nil)
	}

	variants := make([]map[string]any, 0, len(items))
	for _, item := range items {
		variant, ok := item.(map[string]any)
		if !ok {
			return nil, NewEvaluationError("stability", "metric config key \"variants\" must contain only mappings", nil)
		}
		variants = append(variants, variant)
	}
	return variants, nil
}

// meanPairwiseSimilarity averages Similarity over all unordered pairs.
func meanPairwiseSimilarity(outputs []any) float64 {
	if len(outputs) < 2 {
		return 1
	}
	var sum float64
	var pairs int
	for i := 0; i < len(outputs); i++ {
		for j := i + 1; j < len(outputs); j++ {
			sum += Similarity(outputs[i], outputs[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}
