// Package config provides configuration handling for crucible: the deep
// merge algorithm that combines a base TestConfig with a per-run override,
// structural validation of configuration trees, and YAML loading for both
// test configurations and harness settings.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents harness-level options for the crucible CLI. It does not
// affect the orchestration core, which receives configuration per run.
type Config struct {
	// Executor selects the default execution backend (openai, ollama, command)
	Executor string `yaml:"executor"`

	// CommandPath is the binary invoked by the command executor
	CommandPath string `yaml:"command_path"`

	// Timeout is the maximum wall-clock time allowed per run
	Timeout time.Duration `yaml:"timeout"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// StorePath is the SQLite database results are persisted to ("" disables)
	StorePath string `yaml:"store_path"`

	// ExportPath is the JSONL file results are appended to ("" disables)
	ExportPath string `yaml:"export_path"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Executor:    "ollama",
		CommandPath: "",
		Timeout:     5 * time.Minute,
		LogLevel:    "info",
		StorePath:   ".crucible/results.db",
		ExportPath:  "",
	}
}

// LoadConfig loads harness configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Use a temporary struct to handle duration parsing
	type yamlConfig struct {
		Executor    string `yaml:"executor"`
		CommandPath string `yaml:"command_path"`
		Timeout     string `yaml:"timeout"`
		LogLevel    string `yaml:"log_level"`
		StorePath   string `yaml:"store_path"`
		ExportPath  string `yaml:"export_path"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Executor != "" {
		cfg.Executor = yamlCfg.Executor
	}
	if yamlCfg.CommandPath != "" {
		cfg.CommandPath = yamlCfg.CommandPath
	}
	if yamlCfg.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout format %q: %w", yamlCfg.Timeout, err)
		}
		cfg.Timeout = timeout
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.StorePath != "" {
		cfg.StorePath = yamlCfg.StorePath
	}
	if yamlCfg.ExportPath != "" {
		cfg.ExportPath = yamlCfg.ExportPath
	}

	return cfg, nil
}
