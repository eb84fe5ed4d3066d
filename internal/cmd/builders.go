package cmd

import (
	"fmt"

	"github.com/harrison/crucible/internal/config"
	"github.com/harrison/crucible/internal/evaluator"
	"github.com/harrison/crucible/internal/executor"
)

// buildExecutor constructs the execution backend named by the harness
// configuration.
func buildExecutor(cfg *config.Config) (executor.Executor, error) {
	switch cfg.Executor {
	case "openai":
		return executor.NewOpenAIExecutorFromEnv()
	case "ollama":
		return executor.NewOllamaExecutor(), nil
	case "command":
		if cfg.CommandPath == "" {
			return nil, fmt.Errorf("command executor requires command_path")
		}
		return executor.NewCommandExecutor(cfg.CommandPath), nil
	default:
		return nil, fmt.Errorf("unknown executor %q (want openai, ollama, or command)", cfg.Executor)
	}
}

// buildEvaluator constructs the evaluator named by the suite's metric
// configuration under the "evaluator" key. Ground truth is the default:
// it needs no extra metric configuration beyond per-case params.
func buildEvaluator(metricConfig map[string]any) (evaluator.Evaluator, error) {
	name, _ := metricConfig["evaluator"].(string)
	if name == "" {
		name = "ground_truth"
	}

	switch name {
	case "comparison":
		return evaluator.NewComparisonEvaluator(), nil
	case "stability":
		return evaluator.NewStabilityEvaluator(), nil
	case "rules":
		names, err := ruleNames(metricConfig)
		if err != nil {
			return nil, err
		}
		rules, err := evaluator.RulesByName(names)
		if err != nil {
			return nil, err
		}
		return evaluator.NewRuleComplianceEvaluator(rules...), nil
	case "ground_truth":
		return evaluator.NewGroundTruthEvaluator(), nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q (want comparison, stability, rules, or ground_truth)", name)
	}
}

// ruleNames reads the "rules" name list from the metric configuration,
// defaulting to the non_empty rule.
func ruleNames(metricConfig map[string]any) ([]string, error) {
	raw, ok := metricConfig["rules"]
	if !ok {
		return []string{"non_empty"}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("metric config key \"rules\" must be a sequence of rule names")
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("metric config key \"rules\" must contain only strings")
		}
		names = append(names, name)
	}
	return names, nil
}
