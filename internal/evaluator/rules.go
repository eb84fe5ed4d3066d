package evaluator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harrison/crucible/internal/models"
)

// Rule is a named predicate over (input, output) returning a graded score
// in [0, 1].
type Rule struct {
	Name  string
	Check func(input, output any) (float64, error)
}

// RuleComplianceEvaluator evaluates a fixed list of named rules against the
// input and baseline output. The overall score is the minimum of the
// per-rule scores: a single failing rule caps the result no matter how many
// others pass.
//
// Metric config keys: min_compliance (default 1.0), warning_band
// (default 0.1).
//
// Status rule: min score >= min_compliance is PASSED, within warning_band
// below it is WARNING, lower is FAILED.
type RuleComplianceEvaluator struct {
	rules []Rule
}

// NewRuleComplianceEvaluator creates an evaluator over the given rules.
func NewRuleComplianceEvaluator(rules ...Rule) *RuleComplianceEvaluator {
	return &RuleComplianceEvaluator{rules: rules}
}

// Evaluate implements Evaluator. It never re-invokes the executor.
func (e *RuleComplianceEvaluator) Evaluate(ctx context.Context, req Request) (*models.MetricOutput, error) {
	if len(e.rules) == 0 {
		return nil, NewEvaluationError("rules", "no rules configured", nil)
	}

	minCompliance, err := thresholdValue(req.MetricConfig, "min_compliance", 1.0)
	if err != nil {
		return nil, NewEvaluationError("rules", "invalid threshold", err)
	}
	band, err := thresholdValue(req.MetricConfig, "warning_band", defaultWarningBand)
	if err != nil {
		return nil, NewEvaluationError("rules", "invalid threshold", err)
	}

	perRule := make(map[string]any, len(e.rules))
	overall := 1.0
	worst := ""
	for _, rule := range e.rules {
		score, err := rule.Check(req.Input, req.BaseOutput)
		if err != nil {
			return nil, NewEvaluationError("rules", fmt.Sprintf("rule %q could not be evaluated", rule.Name), err)
		}
		score = clamp01(score)
		perRule[rule.Name] = score
		if score < overall || worst == "" {
			overall = score
			worst = rule.Name
		}
	}

	return &models.MetricOutput{
		Score:  overall,
		Status: statusFor(overall, minCompliance, band),
		Details: map[string]any{
			"rule_scores": perRule,
			"worst_rule":  worst,
		},
		Threshold: map[string]float64{
			"min_compliance": minCompliance,
			"warning_band":   band,
		},
	}, nil
}

// NonEmptyRule scores 1 when the output is a non-blank string or a
// non-empty structured value.
func NonEmptyRule() Rule {
	return Rule{
		Name: "non_empty",
		Check: func(_, output any) (float64, error) {
			switch v := output.(type) {
			case string:
				if len(v) > 0 {
					return 1, nil
				}
				return 0, nil
			case map[string]any:
				if len(v) > 0 {
					return 1, nil
				}
				return 0, nil
			case nil:
				return 0, nil
			default:
				return 1, nil
			}
		},
	}
}

// ValidJSONRule scores 1 when the output is valid JSON (or an already
// structured value).
func ValidJSONRule() Rule {
	return Rule{
		Name: "valid_json",
		Check: func(_, output any) (float64, error) {
			switch v := output.(type) {
			case string:
				if json.Valid([]byte(v)) {
					return 1, nil
				}
				return 0, nil
			case map[string]any, []any:
				return 1, nil
			default:
				return 0, nil
			}
		},
	}
}

// MaxLengthRule scores 1 when a textual output is at most limit bytes,
// degrading linearly as it overshoots up to twice the limit.
func MaxLengthRule(limit int) Rule {
	return Rule{
		Name: "max_length",
		Check: func(_, output any) (float64, error) {
			text, ok := output.(string)
			if !ok {
				return 0, fmt.Errorf("max_length requires a textual output, got %T", output)
			}
			if limit <= 0 {
				return 0, fmt.Errorf("max_length limit must be positive, got %d", limit)
			}
			if len(text) <= limit {
				return 1, nil
			}
			excess := float64(len(text)-limit) / float64(limit)
			if excess >= 1 {
				return 0, nil
			}
			return 1 - excess, nil
		},
	}
}

// RulesByName resolves built-in rule names, as referenced from suite metric
// configurations. Unknown names are an error so typos fail loudly.
func RulesByName(names []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		switch name {
		case "non_empty":
			rules = append(rules, NonEmptyRule())
		case "valid_json":
			rules = append(rules, ValidJSONRule())
		default:
			return nil, fmt.Errorf("unknown rule %q", name)
		}
	}
	return rules, nil
}
