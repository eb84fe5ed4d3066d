package config

import (
	"fmt"

	"github.com/harrison/crucible/internal/models"
)

// ConfigError reports a structurally invalid configuration, detected before
// any execution begins.
type ConfigError struct {
	Path    string // Dotted path to the offending value ("" for the root)
	Message string
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Message)
	}
	return fmt.Sprintf("invalid configuration at %q: %s", e.Path, e.Message)
}

// Merge combines a base configuration with an override and returns a fresh
// configuration. For each key present in override:
//   - if both sides hold mappings, the merge recurses into them;
//   - otherwise the override value replaces the base value entirely,
//     including the case where the override holds a mapping but the base
//     does not.
//
// Keys present only in base are retained; keys present only in override are
// added. Neither input is mutated, and the result shares no mutable state
// with either. A nil override yields a deep copy of base. Merge is
// idempotent: Merge(Merge(b, o), o) equals Merge(b, o).
func Merge(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	for key, value := range base {
		merged[key] = deepCopyValue(value)
	}

	for key, overrideValue := range override {
		baseMap, baseIsMap := merged[key].(map[string]any)
		overrideMap, overrideIsMap := overrideValue.(map[string]any)
		if baseIsMap && overrideIsMap {
			merged[key] = Merge(baseMap, overrideMap)
			continue
		}
		merged[key] = deepCopyValue(overrideValue)
	}

	return merged
}

// MergeTestConfig applies Merge to both halves of a TestConfig. A nil
// override yields a deep copy of base.
func MergeTestConfig(base models.TestConfig, override *models.TestConfig) models.TestConfig {
	if override == nil {
		return models.TestConfig{
			ExecutorConfig: Merge(base.ExecutorConfig, nil),
			MetricConfig:   Merge(base.MetricConfig, nil),
		}
	}
	return models.TestConfig{
		ExecutorConfig: Merge(base.ExecutorConfig, override.ExecutorConfig),
		MetricConfig:   Merge(base.MetricConfig, override.MetricConfig),
	}
}

// deepCopyValue copies a configuration value so the merged result shares no
// mutable state with its inputs. Scalars are returned as-is.
func deepCopyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = deepCopyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// ValidateTree checks that a configuration tree contains only the value
// shapes the merge algorithm understands: scalars, []any sequences, and
// map[string]any mappings. Returns a *ConfigError naming the first
// offending path.
func ValidateTree(tree map[string]any) error {
	return validateValue("", tree)
}

// ValidateTestConfig validates both halves of a TestConfig.
func ValidateTestConfig(cfg models.TestConfig) error {
	if err := validateValue("executor_config", cfg.ExecutorConfig); err != nil {
		return err
	}
	return validateValue("metric_config", cfg.MetricConfig)
}

func validateValue(path string, value any) error {
	switch v := value.(type) {
	case nil, bool, int, int64, float64, string:
		return nil
	case map[string]any:
		for key, item := range v {
			if err := validateValue(joinPath(path, key), item); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, item := range v {
			if err := validateValue(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
		return nil
	default:
		return &ConfigError{
			Path:    path,
			Message: fmt.Sprintf("unsupported value type %T", value),
		}
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
