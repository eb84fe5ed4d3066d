package evaluator

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// FieldResult describes the match outcome for a single structured field.
type FieldResult struct {
	Field    string `json:"field"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Match    bool   `json:"match"`
}

// ExactMatch returns true if expected and actual are identical after
// trimming whitespace and normalizing case.
func ExactMatch(expected, actual string) bool {
	return strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(actual))
}

// TokenF1 computes token-level F1 between two strings, tokenized on
// whitespace and lowercased. Two empty strings score 1.
func TokenF1(expected, actual string) float64 {
	expTokens := strings.Fields(strings.ToLower(expected))
	actTokens := strings.Fields(strings.ToLower(actual))

	if len(expTokens) == 0 && len(actTokens) == 0 {
		return 1
	}
	if len(expTokens) == 0 || len(actTokens) == 0 {
		return 0
	}

	expSet := make(map[string]int)
	for _, tok := range expTokens {
		expSet[tok]++
	}

	var tp float64
	for _, tok := range actTokens {
		if expSet[tok] > 0 {
			expSet[tok]--
			tp++
		}
	}

	precision := tp / float64(len(actTokens))
	recall := tp / float64(len(expTokens))
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// FieldMatch compares two string-keyed mappings field-by-field at the top
// level, from expected's point of view. Values are compared after JSON
// normalization, so int 1 and float64 1 are considered equal.
func FieldMatch(expected, actual map[string]any) (matched, total int, details []FieldResult) {
	for field, expVal := range expected {
		actVal, ok := actual[field]
		isMatch := ok && jsonValuesEqual(expVal, actVal)
		if isMatch {
			matched++
		}
		details = append(details, FieldResult{
			Field:    field,
			Expected: expVal,
			Actual:   actVal,
			Match:    isMatch,
		})
	}
	return matched, len(expected), details
}

// Similarity scores how close two outputs are, in [0, 1]. The strategy
// depends on shape: textual outputs use exact match then token F1,
// structured outputs use symmetric field matching, anything else falls back
// to deep equality. Similarity is symmetric, which keeps aggregate scores
// built from it order-independent.
func Similarity(a, b any) float64 {
	aStr, aIsStr := a.(string)
	bStr, bIsStr := b.(string)
	if aIsStr && bIsStr {
		aMap, aOK := parseJSONObject(aStr)
		bMap, bOK := parseJSONObject(bStr)
		if aOK && bOK {
			return structuredSimilarity(aMap, bMap)
		}
		if ExactMatch(aStr, bStr) {
			return 1
		}
		return TokenF1(aStr, bStr)
	}

	aMap, aIsMap := a.(map[string]any)
	bMap, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		return structuredSimilarity(aMap, bMap)
	}

	if jsonValuesEqual(a, b) {
		return 1
	}
	return 0
}

// structuredSimilarity averages field-match ratios in both directions so the
// result does not depend on which side is treated as the reference.
func structuredSimilarity(a, b map[string]any) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	return (fieldRatio(a, b) + fieldRatio(b, a)) / 2
}

func fieldRatio(expected, actual map[string]any) float64 {
	matched, total, _ := FieldMatch(expected, actual)
	if total == 0 {
		return 1
	}
	return float64(matched) / float64(total)
}

// parseJSONObject reports whether s is a JSON object, returning its decoded
// form when it is.
func parseJSONObject(s string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(trimmed), &m); err != nil {
		return nil, false
	}
	return m, true
}

// jsonValuesEqual compares two values after JSON normalization. Marshalling
// sorts object keys and collapses numeric representation, so equal trees
// produce identical bytes. Unmarshallable values fall back to DeepEqual.
func jsonValuesEqual(a, b any) bool {
	aBytes, aErr := json.Marshal(a)
	bBytes, bErr := json.Marshal(b)
	if aErr != nil || bErr != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(aBytes, bBytes)
}

// clamp01 bounds a score to [0, 1].
func clamp01(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
