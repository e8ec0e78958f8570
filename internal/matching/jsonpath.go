package matching

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/ohler55/ojg/jp"
)

// JSONPathDetail is the outcome of one JSONPath condition.
type JSONPathDetail struct {
	Path     string `json:"path"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual,omitempty"`
	Found    bool   `json:"found"`
	Matched  bool   `json:"matched"`
	Error    string `json:"error,omitempty"`
}

// MatchJSONPath evaluates JSONPath conditions against a decoded JSON value.
// Each condition maps a JSONPath expression to an expected value, or to
// {"exists": bool} for an existence check. Conditions are evaluated in
// sorted path order so details are stable.
func MatchJSONPath(conditions map[string]any, data any) (bool, []JSONPathDetail) {
	paths := make([]string, 0, len(conditions))
	for path := range conditions {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	allMatched := true
	details := make([]JSONPathDetail, 0, len(paths))
	for _, path := range paths {
		detail := matchSingleJSONPath(path, conditions[path], data)
		if !detail.Matched {
			allMatched = false
		}
		details = append(details, detail)
	}
	return allMatched, details
}

// MatchJSONPathBytes decodes body and evaluates the conditions. A body that
// is not valid JSON fails every condition.
func MatchJSONPathBytes(conditions map[string]any, body []byte) (bool, []JSONPathDetail) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		details := make([]JSONPathDetail, 0, len(conditions))
		for path, expected := range conditions {
			details = append(details, JSONPathDetail{Path: path, Expected: expected, Error: "body is not JSON"})
		}
		sort.Slice(details, func(i, j int) bool { return details[i].Path < details[j].Path })
		return len(conditions) == 0, details
	}
	return MatchJSONPath(conditions, data)
}

// matchSingleJSONPath evaluates a single JSONPath condition.
func matchSingleJSONPath(path string, expected any, data any) JSONPathDetail {
	detail := JSONPathDetail{Path: path, Expected: expected}

	expr, err := jp.ParseString(path)
	if err != nil {
		detail.Error = err.Error()
		return detail
	}

	results := expr.Get(data)
	detail.Found = len(results) > 0
	if detail.Found {
		detail.Actual = results[0]
	}

	if isExistenceCheck(expected) {
		detail.Matched = detail.Found == getExistsValue(expected)
		return detail
	}

	// For wildcard paths that return multiple results, check if any match
	for _, result := range results {
		if valuesEqual(result, expected) {
			detail.Matched = true
			detail.Actual = result
			break
		}
	}
	return detail
}

// isExistenceCheck determines if the expected value is an existence check object.
// An existence check is a map with an "exists" key containing a boolean.
func isExistenceCheck(expected any) bool {
	m, ok := expected.(map[string]any)
	if !ok {
		return false
	}
	_, hasExists := m["exists"]
	return hasExists && len(m) == 1
}

// getExistsValue extracts the boolean value from an existence check.
func getExistsValue(expected any) bool {
	m, ok := expected.(map[string]any)
	if !ok {
		return false
	}
	b, ok := m["exists"].(bool)
	return ok && b
}

// valuesEqual compares two values for equality, handling type coercion.
// Supports comparing:
//   - strings
//   - numbers (float64, int, etc.)
//   - booleans
//   - null
func valuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	// Handle numeric comparison (JSON numbers are float64)
	actualNum, actualIsNum := toFloat64(actual)
	expectedNum, expectedIsNum := toFloat64(expected)
	if actualIsNum && expectedIsNum {
		return actualNum == expectedNum
	}

	return reflect.DeepEqual(actual, expected)
}

// toFloat64 attempts to convert a value to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// ValidateJSONPathExpression validates a JSONPath expression.
// Returns an error if the expression is invalid.
func ValidateJSONPathExpression(path string) error {
	_, err := jp.ParseString(path)
	if err != nil {
		return fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return nil
}
