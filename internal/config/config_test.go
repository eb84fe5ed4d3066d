package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrison/crucible/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Executor != "ollama" {
		t.Errorf("Executor = %q, want ollama", cfg.Executor)
	}
	if cfg.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", cfg.Timeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil for missing file", err)
	}
	if cfg.Executor != DefaultConfig().Executor {
		t.Errorf("missing file should yield defaults, got executor %q", cfg.Executor)
	}
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crucible.yaml")
	content := `executor: openai
timeout: 90s
log_level: debug
store_path: /tmp/results.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Executor != "openai" {
		t.Errorf("Executor = %q, want openai", cfg.Executor)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.StorePath != "/tmp/results.db" {
		t.Errorf("StorePath = %q, want /tmp/results.db", cfg.StorePath)
	}
	// Unset keys keep their defaults
	if cfg.ExportPath != DefaultConfig().ExportPath {
		t.Errorf("ExportPath = %q, want default", cfg.ExportPath)
	}
}

func TestLoadConfigInvalidTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crucible.yaml")
	if err := os.WriteFile(path, []byte("timeout: fast\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() with invalid timeout should return error")
	}
}

func TestLoadTestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	content := `executor_config:
  model: gpt-4
  params:
    temp: 0.5
metric_config:
  min_similarity: 0.8
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTestConfig(path)
	if err != nil {
		t.Fatalf("LoadTestConfig() error = %v", err)
	}

	if cfg.ExecutorConfig["model"] != "gpt-4" {
		t.Errorf("model = %v, want gpt-4", cfg.ExecutorConfig["model"])
	}
	params, ok := cfg.ExecutorConfig["params"].(map[string]any)
	if !ok {
		t.Fatalf("params type = %T, want map[string]any", cfg.ExecutorConfig["params"])
	}
	if params["temp"] != 0.5 {
		t.Errorf("temp = %v, want 0.5", params["temp"])
	}
	if cfg.MetricConfig["min_similarity"] != 0.8 {
		t.Errorf("min_similarity = %v, want 0.8", cfg.MetricConfig["min_similarity"])
	}
}

func TestLoadTestConfigMissingFile(t *testing.T) {
	if _, err := LoadTestConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadTestConfig() with missing file should return error")
	}
}

func TestParseTestConfigMalformed(t *testing.T) {
	var cfg models.TestConfig
	err := ParseTestConfig([]byte("executor_config: [not: a mapping"), &cfg)
	if err == nil {
		t.Error("ParseTestConfig() with malformed YAML should return error")
	}
}
