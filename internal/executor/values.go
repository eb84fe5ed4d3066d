package executor

import "fmt"

// Configuration trees come from YAML, so numeric values may arrive as int,
// int64, or float64 depending on how they were written. These helpers
// coerce to the type a backend needs without mutating the config.

// stringValue returns config[key] as a string, or fallback if absent.
// Returns an error if the key is present but not a string.
func stringValue(config map[string]any, key, fallback string) (string, error) {
	raw, ok := config[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("config key %q: expected string, got %T", key, raw)
	}
	return s, nil
}

// floatValue returns config[key] as a float64, or fallback if absent.
func floatValue(config map[string]any, key string, fallback float64) (float64, error) {
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
		return 0, fmt.Errorf("config key %q: expected number, got %T", key, raw)
	}
}

// intValue returns config[key] as an int, or fallback if absent.
func intValue(config map[string]any, key string, fallback int) (int, error) {
	raw, ok := config[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("config key %q: expected integer, got %T", key, raw)
	}
}

// mapValue returns config[key] as a mapping, or nil if absent.
func mapValue(config map[string]any, key string) (map[string]any, error) {
	raw, ok := config[key]
	if !ok || raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config key %q: expected mapping, got %T", key, raw)
	}
	return m, nil
}

// promptFrom coerces the run input into the prompt string the chat backends
// send. Inputs are type-erased at the harness level; the chat executors
// document that they expect textual inputs.
func promptFrom(input any) (string, error) {
	switch v := input.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("input must be textual, got %T", input)
	}
}
