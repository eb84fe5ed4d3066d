package evaluator

import (
	"context"

	"github.com/harrison/crucible/internal/models"
)

// GroundTruthEvaluator scores the baseline output against an externally
// supplied reference. The comparison strategy follows the shapes of the two
// values: structured against structured uses field matching, textual against
// textual uses exact match then token F1, anything else falls back to
// exact equality.
//
// The reference must be present as evaluation param "ground_truth"; its
// absence is an EvaluationError, never a defaulted score.
//
// Metric config keys: min_accuracy (default 0.9), warning_band
// (default 0.1).
//
// Status rule: accuracy >= min_accuracy is PASSED, within warning_band
// below it is WARNING, lower is FAILED.
type GroundTruthEvaluator struct{}

// NewGroundTruthEvaluator creates a GroundTruthEvaluator.
func NewGroundTruthEvaluator() *GroundTruthEvaluator {
	return &GroundTruthEvaluator{}
}

// Evaluate implements Evaluator. It never re-invokes the executor.
func (e *GroundTruthEvaluator) Evaluate(ctx context.Context, req Request) (*models.MetricOutput, error) {
	groundTruth, ok := req.Params["ground_truth"]
	if !ok {
		return nil, NewEvaluationError("ground_truth", "evaluation param \"ground_truth\" is required", nil)
	}

	minAccuracy, err := thresholdValue(req.MetricConfig, "min_accuracy", 0.9)
	if err != nil {
		return nil, NewEvaluationError("ground_truth", "invalid threshold", err)
	}
	band, err := thresholdValue(req.MetricConfig, "warning_band", defaultWarningBand)
	if err != nil {
		return nil, NewEvaluationError("ground_truth", "invalid threshold", err)
	}

	score, strategy, details := accuracyOf(req.BaseOutput, groundTruth)
	details["strategy"] = strategy

	return &models.MetricOutput{
		Score:   clamp01(score),
		Status:  statusFor(score, minAccuracy, band),
		Details: details,
		Threshold: map[string]float64{
			"min_accuracy": minAccuracy,
			"warning_band": band,
		},
	}, nil
}

// accuracyOf picks a comparison strategy from the shapes of output and
// reference and returns the score, the strategy name, and its diagnostics.
func accuracyOf(output, groundTruth any) (float64, string, map[string]any) {
	outMap, outIsMap := asObject(output)
	gtMap, gtIsMap := asObject(groundTruth)
	if outIsMap && gtIsMap {
		matched, total, fields := FieldMatch(gtMap, outMap)
		score := 1.0
		if total > 0 {
			score = float64(matched) / float64(total)
		}
		return score, "structured", map[string]any{
			"matched_fields": matched,
			"total_fields":   total,
			"fields":         fields,
		}
	}

	outStr, outIsStr := output.(string)
	gtStr, gtIsStr := groundTruth.(string)
	if outIsStr && gtIsStr {
		if ExactMatch(gtStr, outStr) {
			return 1, "textual", map[string]any{"exact_match": true}
		}
		return TokenF1(gtStr, outStr), "textual", map[string]any{"exact_match": false}
	}

	if jsonValuesEqual(output, groundTruth) {
		return 1, "equality", map[string]any{"equal": true}
	}
	return 0, "equality", map[string]any{"equal": false}
}

// asObject treats both native mappings and JSON-object strings as
// structured values.
func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case string:
		return parseJSONObject(v)
	default:
		return nil, false
	}
}
