package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPath(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		path      string
		wantScore int
	}{
		{"exact", "/api/users", "/api/users", ScorePathExact},
		{"exact with query", "/search?q=go", "/search?q=go", ScorePathExact},
		{"query differs", "/search?q=go", "/search?q=rust", 0},
		{"exact without query does not match query", "/search", "/search?q=go", 0},
		{"named param", "/api/users/{id}", "/api/users/123", ScorePathNamedParams},
		{"named param ignores query", "/api/users/{id}", "/api/users/123?full=1", ScorePathNamedParams},
		{"named param segment count", "/api/users/{id}", "/api/users/123/posts", 0},
		{"trailing wildcard", "/files/*", "/files/a/b.txt", ScorePathWildcard},
		{"trailing wildcard root", "/files/*", "/files", ScorePathWildcard},
		{"middle wildcard", "/api/*/items", "/api/users/items", ScorePathWildcard},
		{"wildcard suffix must end path", "/files/*.txt", "/files/a.txt.bak", 0},
		{"no match", "/api/users", "/api/posts", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantScore, MatchPath(tt.pattern, tt.path))
		})
	}
}

func TestPathParams(t *testing.T) {
	assert.Equal(t, map[string]string{"id": "123"}, PathParams("/users/{id}", "/users/123?x=1"))
	assert.Equal(t, map[string]string{"0": "456"}, PathParams("/api/users/*", "/api/users/456"))
	assert.Equal(t, map[string]string{"0": "users", "1": "789"}, PathParams("/api/*/items/*", "/api/users/items/789"))
	assert.Equal(t, map[string]string{"0": "a/b"}, PathParams("/files/*", "/files/a/b"))
}
