package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrison/crucible/internal/models"
)

// LoadTestConfig reads a TestConfig from a YAML file. Unlike LoadConfig, a
// missing file is an error: a run cannot proceed without its configuration.
// Malformed YAML or a structurally invalid tree yields a *ConfigError.
func LoadTestConfig(path string) (models.TestConfig, error) {
	var cfg models.TestConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read test config: %w", err)
	}

	if err := ParseTestConfig(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseTestConfig decodes YAML bytes into a TestConfig and validates the
// resulting tree shapes.
func ParseTestConfig(data []byte, cfg *models.TestConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ConfigError{Message: fmt.Sprintf("failed to parse test config: %v", err)}
	}
	if cfg.ExecutorConfig == nil {
		cfg.ExecutorConfig = map[string]any{}
	}
	if cfg.MetricConfig == nil {
		cfg.MetricConfig = map[string]any{}
	}
	return ValidateTestConfig(*cfg)
}
