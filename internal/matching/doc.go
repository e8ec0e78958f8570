// Package matching decides whether an actual request or response satisfies
// an expected shape, and renders conversations as annotated HTTP/1.1 text.
//
// Satisfaction is partial: only what the expected side specifies is checked.
//
//   - Method and host: exact, method case-insensitive
//   - Path: exact (including the query string), named params "/users/{id}"
//     or wildcards "/files/*"
//   - Port and encrypted: exact when given
//   - Headers: every expected header must be present with the same value
//   - Body: structured bodies are a subset match against a JSON actual body,
//     strings compare as JSON, XML or raw text, bytes compare exactly
//   - bodyJSONPath, bodyPattern and where conditions
//
// Every check runs without short-circuiting and is reported in a
// Breakdown, which also carries a weighted score so a request log can show
// how close a failed request came. Score constants are in scores.go.
//
// DiffConversation compares a whole conversation positionally and renders
// excess exchanges under "// should be removed:" and unconsumed
// expectations under "// missing:".
package matching
