package models

import "time"

// ExecutorConfig is a string-keyed tree of configuration values. Nested
// values are scalars, []any sequences, or further map[string]any mappings -
// the shape the YAML decoder produces. Executors define their own schemas;
// the harness never interprets individual keys.
type ExecutorConfig = map[string]any

// TestConfig pairs the configuration handed to the executor with the
// configuration handed to the evaluator. Merging two TestConfigs produces
// a fresh value; neither input is ever modified.
type TestConfig struct {
	ExecutorConfig ExecutorConfig `yaml:"executor_config"`
	MetricConfig   ExecutorConfig `yaml:"metric_config"`
}

// TestResult is the record produced by one evaluation run. It is created
// once per run, never mutated afterward, and owned by the caller that
// receives it.
type TestResult struct {
	MetricOutput   MetricOutput
	ExecutorOutput any
	ConfigsUsed    TestConfig
	Metadata       map[string]string
	Timestamp      time.Time
}
