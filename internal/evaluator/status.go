package evaluator

import (
	"fmt"

	"github.com/harrison/crucible/internal/models"
)

// Default warning band shared by the shipped evaluators: scores within this
// distance below the threshold classify as WARNING instead of FAILED.
const defaultWarningBand = 0.1

// statusFor derives a MetricStatus from a score and its thresholds. All
// shipped evaluators use the same rule: score >= min is PASSED, score >=
// min-band is WARNING, anything lower is FAILED.
func statusFor(score, min, band float64) models.MetricStatus {
	switch {
	case score >= min:
		return models.StatusPassed
	case score >= min-band:
		return models.StatusWarning
	default:
		return models.StatusFailed
	}
}

// thresholdValue reads a numeric threshold from the metric configuration,
// falling back to a default when absent. A present but non-numeric value is
// a configuration problem the evaluator reports rather than papering over.
func thresholdValue(config map[string]any, key string, fallback float64) (float64, error) {
	raw, ok := config[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("metric config key %q: expected number, got %T", key, raw)
	}
}
