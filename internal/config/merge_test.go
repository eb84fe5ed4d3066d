package config

import (
	"errors"
	"reflect"
	"testing"

	"github.com/harrison/crucible/internal/models"
)

func TestMergeEmptyOverride(t *testing.T) {
	base := map[string]any{
		"model": "gpt-4",
		"params": map[string]any{
			"temp":  0.5,
			"top_p": 1,
		},
	}

	for _, override := range []map[string]any{nil, {}} {
		got := Merge(base, override)
		if !reflect.DeepEqual(got, base) {
			t.Errorf("Merge(base, %v) = %v, want deep-equal to base %v", override, got, base)
		}
	}
}

func TestMergeDeepNested(t *testing.T) {
	base := map[string]any{
		"model": "gpt-4",
		"params": map[string]any{
			"temp":  0.5,
			"top_p": 1,
		},
	}
	override := map[string]any{
		"params": map[string]any{
			"temp": 0.9,
		},
	}

	got := Merge(base, override)

	want := map[string]any{
		"model": "gpt-4",
		"params": map[string]any{
			"temp":  0.9,
			"top_p": 1,
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
}

func TestMergeFlatReplace(t *testing.T) {
	base := map[string]any{"model": "gpt-4"}
	override := map[string]any{"model": "gpt-4-mini"}

	got := Merge(base, override)

	if got["model"] != "gpt-4-mini" {
		t.Errorf("merged model = %v, want gpt-4-mini", got["model"])
	}
}

func TestMergeOverrideMappingReplacesScalar(t *testing.T) {
	base := map[string]any{"sampling": "default"}
	override := map[string]any{"sampling": map[string]any{"temp": 0.2}}

	got := Merge(base, override)

	want := map[string]any{"temp": 0.2}
	if !reflect.DeepEqual(got["sampling"], want) {
		t.Errorf("merged sampling = %v, want %v", got["sampling"], want)
	}
}

func TestMergeIdempotent(t *testing.T) {
	base := map[string]any{
		"model": "gpt-4",
		"params": map[string]any{
			"temp":    0.5,
			"seeds":   []any{1, 2, 3},
			"nested":  map[string]any{"a": true},
			"retries": 2,
		},
	}
	override := map[string]any{
		"params": map[string]any{
			"temp":   0.9,
			"nested": map[string]any{"b": false},
		},
		"extra": "value",
	}

	once := Merge(base, override)
	twice := Merge(once, override)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Merge(Merge(b, o), o) = %v, want %v", twice, once)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{
		"params": map[string]any{"temp": 0.5},
	}
	override := map[string]any{
		"params": map[string]any{"temp": 0.9},
	}

	merged := Merge(base, override)

	if base["params"].(map[string]any)["temp"] != 0.5 {
		t.Error("Merge mutated base")
	}
	if override["params"].(map[string]any)["temp"] != 0.9 {
		t.Error("Merge mutated override")
	}

	// Mutating the result must not reach back into either input
	merged["params"].(map[string]any)["temp"] = 0.1
	if base["params"].(map[string]any)["temp"] != 0.5 {
		t.Error("merged result aliases base")
	}
	if override["params"].(map[string]any)["temp"] != 0.9 {
		t.Error("merged result aliases override")
	}
}

func TestMergeTestConfigNilOverride(t *testing.T) {
	base := models.TestConfig{
		ExecutorConfig: map[string]any{"model": "gpt-4"},
		MetricConfig:   map[string]any{"min_similarity": 0.8},
	}

	got := MergeTestConfig(base, nil)

	if !reflect.DeepEqual(got, base) {
		t.Errorf("MergeTestConfig(base, nil) = %v, want %v", got, base)
	}
}

func TestMergeTestConfigBothHalves(t *testing.T) {
	base := models.TestConfig{
		ExecutorConfig: map[string]any{"model": "gpt-4", "params": map[string]any{"temp": 0.5}},
		MetricConfig:   map[string]any{"min_similarity": 0.8},
	}
	override := &models.TestConfig{
		ExecutorConfig: map[string]any{"params": map[string]any{"temp": 0.9}},
		MetricConfig:   map[string]any{"min_similarity": 0.9},
	}

	got := MergeTestConfig(base, override)

	if got.ExecutorConfig["model"] != "gpt-4" {
		t.Errorf("model = %v, want gpt-4", got.ExecutorConfig["model"])
	}
	if got.ExecutorConfig["params"].(map[string]any)["temp"] != 0.9 {
		t.Errorf("temp = %v, want 0.9", got.ExecutorConfig["params"].(map[string]any)["temp"])
	}
	if got.MetricConfig["min_similarity"] != 0.9 {
		t.Errorf("min_similarity = %v, want 0.9", got.MetricConfig["min_similarity"])
	}
}

func TestValidateTree(t *testing.T) {
	tests := []struct {
		name    string
		tree    map[string]any
		wantErr bool
	}{
		{
			name: "scalars and nesting",
			tree: map[string]any{
				"model": "gpt-4",
				"params": map[string]any{
					"temp":   0.5,
					"seeds":  []any{1, 2},
					"stream": false,
				},
			},
			wantErr: false,
		},
		{
			name:    "empty tree",
			tree:    map[string]any{},
			wantErr: false,
		},
		{
			name: "unsupported nested type",
			tree: map[string]any{
				"params": map[string]any{
					"callback": func() {},
				},
			},
			wantErr: true,
		},
		{
			name: "unsupported type in sequence",
			tree: map[string]any{
				"items": []any{1, make(chan int)},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTree(tt.tree)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTree() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("error type = %T, want *ConfigError", err)
				}
			}
		})
	}
}
