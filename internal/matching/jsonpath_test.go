package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchJSONPathBytes(t *testing.T) {
	tests := []struct {
		name       string
		conditions map[string]any
		body       string
		wantMatch  bool
	}{
		{
			name:       "simple string field match",
			conditions: map[string]any{"$.status": "active"},
			body:       `{"status": "active", "name": "test"}`,
			wantMatch:  true,
		},
		{
			name:       "simple string field mismatch",
			conditions: map[string]any{"$.status": "active"},
			body:       `{"status": "inactive", "name": "test"}`,
			wantMatch:  false,
		},
		{
			name:       "number field match with int expectation",
			conditions: map[string]any{"$.count": 42},
			body:       `{"count": 42}`,
			wantMatch:  true,
		},
		{
			name:       "null field match",
			conditions: map[string]any{"$.deleted": nil},
			body:       `{"deleted": null}`,
			wantMatch:  true,
		},
		{
			name:       "nested field",
			conditions: map[string]any{"$.user.name": "ada"},
			body:       `{"user": {"name": "ada"}}`,
			wantMatch:  true,
		},
		{
			name:       "wildcard any element",
			conditions: map[string]any{"$.items[*].id": "b"},
			body:       `{"items": [{"id": "a"}, {"id": "b"}]}`,
			wantMatch:  true,
		},
		{
			name:       "exists true",
			conditions: map[string]any{"$.token": map[string]any{"exists": true}},
			body:       `{"token": "abc"}`,
			wantMatch:  true,
		},
		{
			name:       "exists false",
			conditions: map[string]any{"$.token": map[string]any{"exists": false}},
			body:       `{"other": 1}`,
			wantMatch:  true,
		},
		{
			name:       "exists false but present",
			conditions: map[string]any{"$.token": map[string]any{"exists": false}},
			body:       `{"token": "abc"}`,
			wantMatch:  false,
		},
		{
			name:       "multiple conditions one fails",
			conditions: map[string]any{"$.status": "active", "$.count": 10},
			body:       `{"status": "active", "count": 20}`,
			wantMatch:  false,
		},
		{
			name:       "invalid json body",
			conditions: map[string]any{"$.status": "active"},
			body:       `not json`,
			wantMatch:  false,
		},
		{
			name:       "invalid expression",
			conditions: map[string]any{"$[": "x"},
			body:       `{}`,
			wantMatch:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, details := MatchJSONPathBytes(tt.conditions, []byte(tt.body))
			assert.Equal(t, tt.wantMatch, matched)
			assert.Len(t, details, len(tt.conditions))
		})
	}
}

func TestMatchJSONPath_DetailsSorted(t *testing.T) {
	_, details := MatchJSONPath(map[string]any{"$.b": 1, "$.a": 2}, map[string]any{"a": 2.0, "b": 3.0})
	require.Len(t, details, 2)
	assert.Equal(t, "$.a", details[0].Path)
	assert.True(t, details[0].Matched)
	assert.Equal(t, "$.b", details[1].Path)
	assert.False(t, details[1].Matched)
	assert.Equal(t, 3.0, details[1].Actual)
}

func TestValidateJSONPathExpression(t *testing.T) {
	assert.NoError(t, ValidateJSONPathExpression("$.a.b[0]"))
	assert.Error(t, ValidateJSONPathExpression("$["))
}
