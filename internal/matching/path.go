package matching

import (
	"fmt"
	"strings"
)

// MatchPath checks if the request path matches the pattern.
// Returns a score > 0 if matched, 0 if not matched.
// Exact matches score higher than wildcard matches.
// Supports:
//   - Exact match: "/api/users?page=2" matches "/api/users?page=2"
//   - Wildcard: "/api/users/*" matches "/api/users/123"
//   - Named params: "/api/users/{id}" matches "/api/users/123"
//
// Patterns without a query string ignore the query of the path when
// matching named params or wildcards.
func MatchPath(pattern, path string) int {
	// Exact match
	if pattern == path {
		return ScorePathExact
	}

	if !strings.Contains(pattern, "?") {
		path, _, _ = strings.Cut(path, "?")
	}

	// Check for named parameter pattern (e.g., /api/users/{id})
	if strings.Contains(pattern, "{") && strings.Contains(pattern, "}") {
		if matchNamedParams(pattern, path) {
			return ScorePathNamedParams
		}
	}

	// Trailing wildcard (e.g., /api/users/*)
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return ScorePathWildcard
		}
	}

	// General wildcard matching
	if strings.Contains(pattern, "*") {
		if matchWildcard(pattern, path) {
			return ScorePathWildcard
		}
	}

	return 0
}

// maxPathScore returns the maximum possible score for a path pattern.
func maxPathScore(pattern string) int {
	if strings.Contains(pattern, "{") {
		return ScorePathNamedParams
	}
	if strings.Contains(pattern, "*") {
		return ScorePathWildcard
	}
	return ScorePathExact
}

// matchNamedParams checks if path matches a pattern with named parameters.
// Example: "/users/{id}" matches "/users/123"
func matchNamedParams(pattern, path string) bool {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	// Must have same number of segments
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, patternPart := range patternParts {
		if strings.HasPrefix(patternPart, "{") && strings.HasSuffix(patternPart, "}") {
			continue
		}
		if patternPart != pathParts[i] {
			return false
		}
	}

	return true
}

// matchWildcard performs simple wildcard pattern matching.
// * matches any sequence of characters.
func matchWildcard(pattern, path string) bool {
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == path
	}

	pos := 0
	for i, part := range parts {
		if part == "" {
			continue
		}

		// For first part, must be prefix
		if i == 0 {
			if !strings.HasPrefix(path, part) {
				return false
			}
			pos = len(part)
			continue
		}

		idx := strings.Index(path[pos:], part)
		if idx == -1 {
			return false
		}
		pos += idx + len(part)
	}

	// A pattern that does not end in * must consume the whole path.
	if last := parts[len(parts)-1]; last != "" {
		return strings.HasSuffix(path, last)
	}
	return true
}

// PathParams extracts path variables from a path pattern.
// Supports both {name} style params and * wildcards.
// Examples:
//   - pattern "/users/{id}" with path "/users/123" returns {"id": "123"}
//   - pattern "/api/users/*" with path "/api/users/456" returns {"0": "456"}
//   - pattern "/api/*/items/*" with path "/api/users/items/789" returns {"0": "users", "1": "789"}
func PathParams(pattern, path string) map[string]string {
	result := make(map[string]string)
	path, _, _ = strings.Cut(path, "?")

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	wildcardIndex := 0
	for i, patternPart := range patternParts {
		if i >= len(pathParts) {
			break
		}

		if strings.HasPrefix(patternPart, "{") && strings.HasSuffix(patternPart, "}") {
			result[patternPart[1:len(patternPart)-1]] = pathParts[i]
			continue
		}

		if patternPart == "*" {
			// A trailing wildcard captures the rest of the path.
			if i == len(patternParts)-1 {
				result[fmt.Sprintf("%d", wildcardIndex)] = strings.Join(pathParts[i:], "/")
			} else {
				result[fmt.Sprintf("%d", wildcardIndex)] = pathParts[i]
			}
			wildcardIndex++
		}
	}

	return result
}
