package matching

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/getmockd/mocktransport/pkg/message"
)

// FieldResult describes whether a single expected field was satisfied.
type FieldResult struct {
	Field    string `json:"field"`
	Matched  bool   `json:"matched"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
	Details  any    `json:"details,omitempty"`
}

// Breakdown is the field-by-field outcome of one satisfaction check.
type Breakdown struct {
	Fields           []FieldResult `json:"fields"`
	Score            int           `json:"score"`
	MaxPossibleScore int           `json:"maxPossibleScore"`
	MatchPercentage  int           `json:"matchPercentage"`
	Reason           string        `json:"reason"`
}

// Matched reports whether every field matched.
func (b *Breakdown) Matched() bool {
	for _, f := range b.Fields {
		if !f.Matched {
			return false
		}
	}
	return true
}

// Field returns the result for a field name, or nil.
func (b *Breakdown) Field(name string) *FieldResult {
	for i := range b.Fields {
		if b.Fields[i].Field == name {
			return &b.Fields[i]
		}
	}
	return nil
}

func (b *Breakdown) add(f FieldResult) {
	if f.Matched {
		f.Score = f.MaxScore
	}
	b.Fields = append(b.Fields, f)
	b.Score += f.Score
	b.MaxPossibleScore += f.MaxScore
}

func (b *Breakdown) finish() *Breakdown {
	if b.MaxPossibleScore > 0 {
		b.MatchPercentage = (b.Score * 100) / b.MaxPossibleScore
	}
	b.Reason = GenerateReason(b.Fields)
	return b
}

// SatisfyRequest evaluates every field of the expected pattern against the
// actual request without short-circuiting. Only fields the pattern
// specifies are included.
func SatisfyRequest(actual *message.Request, expected *message.RequestPattern) *Breakdown {
	result := &Breakdown{}
	if expected == nil {
		return result.finish()
	}

	if expected.Method != "" {
		result.add(FieldResult{
			Field:    "method",
			Matched:  strings.EqualFold(expected.Method, actual.Method),
			MaxScore: ScoreMethod,
			Expected: expected.Method,
			Actual:   actual.Method,
		})
	}

	if expected.Path != "" {
		score := MatchPath(expected.Path, actual.Path)
		result.add(FieldResult{
			Field:    "path",
			Matched:  score > 0,
			Score:    score,
			MaxScore: maxPathScore(expected.Path),
			Expected: expected.Path,
			Actual:   actual.Path,
		})
	}

	if expected.Host != "" {
		result.add(FieldResult{
			Field:    "host",
			Matched:  strings.EqualFold(expected.Host, actual.Host),
			MaxScore: ScoreHost,
			Expected: expected.Host,
			Actual:   actual.Host,
		})
	}

	if expected.Port != nil {
		result.add(FieldResult{
			Field:    "port",
			Matched:  *expected.Port == actual.Port,
			MaxScore: ScorePort,
			Expected: *expected.Port,
			Actual:   actual.Port,
		})
	}

	if expected.Encrypted != nil {
		result.add(FieldResult{
			Field:    "encrypted",
			Matched:  *expected.Encrypted == actual.Encrypted,
			MaxScore: ScoreEncrypted,
			Expected: *expected.Encrypted,
			Actual:   actual.Encrypted,
		})
	}

	if expected.Header.Len() > 0 {
		result.add(headerField(expected.Header, actual.Header))
	}

	contentType := actual.Header.Get("Content-Type")
	if !expected.Body.IsEmpty() {
		result.add(bodyField(expected.Body, actual.Body, contentType))
	}

	if expected.BodyPattern != "" {
		matched, err := MatchBodyPattern(expected.BodyPattern, actual.Body.Raw())
		f := FieldResult{
			Field:    "bodyPattern",
			Matched:  matched,
			MaxScore: ScoreBodyPattern,
			Expected: expected.BodyPattern,
		}
		if err != nil {
			f.Details = err.Error()
		}
		result.add(f)
	}

	if len(expected.BodyJSONPath) > 0 {
		var matched bool
		var details []JSONPathDetail
		if actual.Body.Kind() == message.BodyJSON {
			matched, details = MatchJSONPath(expected.BodyJSONPath, actual.Body.Value())
		} else {
			matched, details = MatchJSONPathBytes(expected.BodyJSONPath, actual.Body.Raw())
		}
		score := 0
		for _, d := range details {
			if d.Matched {
				score += ScoreJSONPathCondition
			}
		}
		result.add(FieldResult{
			Field:    "bodyJSONPath",
			Matched:  matched,
			Score:    score,
			MaxScore: len(expected.BodyJSONPath) * ScoreJSONPathCondition,
			Expected: expected.BodyJSONPath,
			Details:  details,
		})
	}

	if expected.Where != "" {
		var params map[string]string
		if expected.Path != "" {
			params = PathParams(expected.Path, actual.Path)
		}
		matched, err := EvalWhere(expected.Where, actual, params)
		f := FieldResult{
			Field:    "where",
			Matched:  matched,
			MaxScore: ScoreWhere,
			Expected: expected.Where,
		}
		if err != nil {
			f.Details = err.Error()
		}
		result.add(f)
	}

	return result.finish()
}

// SatisfyResponse evaluates the expected response pattern against an actual
// response.
func SatisfyResponse(actual *message.Response, expected *message.ResponsePattern) *Breakdown {
	result := &Breakdown{}
	if expected == nil {
		return result.finish()
	}

	if expected.StatusCode != 0 {
		result.add(FieldResult{
			Field:    "statusCode",
			Matched:  expected.StatusCode == actual.StatusCode,
			MaxScore: ScoreStatus,
			Expected: expected.StatusCode,
			Actual:   actual.StatusCode,
		})
	}

	if expected.Header.Len() > 0 {
		result.add(headerField(expected.Header, actual.Header))
	}

	if !expected.Body.IsEmpty() {
		result.add(bodyField(expected.Body, actual.Body, actual.Header.Get("Content-Type")))
	}

	if len(expected.BodyJSONPath) > 0 {
		matched, details := MatchJSONPathBytes(expected.BodyJSONPath, actual.Body.Raw())
		if actual.Body.Kind() == message.BodyJSON {
			matched, details = MatchJSONPath(expected.BodyJSONPath, actual.Body.Value())
		}
		result.add(FieldResult{
			Field:    "bodyJSONPath",
			Matched:  matched,
			MaxScore: len(expected.BodyJSONPath) * ScoreJSONPathCondition,
			Expected: expected.BodyJSONPath,
			Details:  details,
		})
	}

	return result.finish()
}

func headerField(expected, actual message.Header) FieldResult {
	matched, details := MatchHeaders(expected, actual)
	score := 0
	for _, d := range details {
		if d.Matched {
			score += ScoreHeader
		}
	}
	return FieldResult{
		Field:    "headers",
		Matched:  matched,
		Score:    score,
		MaxScore: len(details) * ScoreHeader,
		Details:  details,
	}
}

func bodyField(expected, actual message.Body, contentType string) FieldResult {
	return FieldResult{
		Field:    "body",
		Matched:  MatchBody(expected, actual, contentType),
		MaxScore: ScoreBody,
		Expected: expected.Text(),
		Actual:   truncate(actual.Text(), 200),
	}
}

// GenerateReason creates a human-readable explanation of why an actual
// message did not satisfy its expectation.
func GenerateReason(fields []FieldResult) string {
	if len(fields) == 0 {
		return "no fields to compare"
	}

	var matched []string
	var firstMismatch *FieldResult

	for i := range fields {
		if fields[i].Matched {
			matched = append(matched, fields[i].Field)
		} else if firstMismatch == nil {
			firstMismatch = &fields[i]
		}
	}

	if firstMismatch == nil {
		return "all specified fields matched"
	}

	if len(matched) == 0 {
		return formatMismatch(firstMismatch)
	}

	return joinFields(matched) + " matched, but " + formatMismatch(firstMismatch)
}

// formatMismatch formats a single field mismatch into a human-readable string.
func formatMismatch(f *FieldResult) string {
	switch f.Field {
	case "method", "path", "host":
		return fmt.Sprintf("%s expected %q, got %q", f.Field, f.Expected, f.Actual)
	case "port", "encrypted", "statusCode":
		return fmt.Sprintf("%s expected %v, got %v", f.Field, f.Expected, f.Actual)
	case "headers":
		if details, ok := f.Details.([]HeaderDetail); ok {
			for _, d := range details {
				if !d.Matched {
					if !d.Present {
						return fmt.Sprintf("header %s expected %q, got (missing)", d.Key, d.Expected)
					}
					return fmt.Sprintf("header %s expected %q, got %q", d.Key, d.Expected, d.Actual)
				}
			}
		}
		return "header mismatch"
	case "body":
		return fmt.Sprintf("body expected to satisfy %q", truncate(fmt.Sprint(f.Expected), 200))
	case "bodyPattern":
		if f.Details != nil {
			return fmt.Sprintf("body pattern %q is invalid: %v", f.Expected, f.Details)
		}
		return fmt.Sprintf("body expected to match pattern %q", f.Expected)
	case "bodyJSONPath":
		if details, ok := f.Details.([]JSONPathDetail); ok {
			for _, d := range details {
				if !d.Matched {
					return "body JSONPath " + d.Path + " " + describeJSONPathMiss(d)
				}
			}
		}
		return "body JSONPath condition not satisfied"
	case "where":
		if f.Details != nil {
			return fmt.Sprintf("where %q failed: %v", f.Expected, f.Details)
		}
		return fmt.Sprintf("where %q evaluated to false", f.Expected)
	default:
		return f.Field + " did not match"
	}
}

func describeJSONPathMiss(d JSONPathDetail) string {
	switch {
	case d.Error != "":
		return d.Error
	case isExistenceCheck(d.Expected):
		if getExistsValue(d.Expected) {
			return "expected to exist"
		}
		return "expected not to exist"
	case !d.Found:
		return fmt.Sprintf("expected %v, got nothing", d.Expected)
	default:
		return fmt.Sprintf("expected %v, got %v", d.Expected, d.Actual)
	}
}

// joinFields joins field names with commas and "and".
func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	case 2:
		return fields[0] + " and " + fields[1]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + ", and " + fields[len(fields)-1]
	}
}

// truncate shortens a string to at most maxLen bytes without splitting a
// rune, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
