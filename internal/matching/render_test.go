package matching

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmockd/mocktransport/pkg/message"
)

func ok200() *message.Response {
	return &message.Response{StatusCode: 200}
}

func TestComment(t *testing.T) {
	assert.Equal(t, []string{"// a", "//", "// b"}, Comment([]string{"a", "", "b"}))
}

func TestDiffConversation(t *testing.T) {
	tests := []struct {
		name           string
		actual         []Exchange
		expected       []ExpectedExchange
		wantRendered   string
		wantExcess     []int
		wantMissing    []int
		wantMismatched []int
	}{
		{
			name:     "matched",
			actual:   []Exchange{{Request: getFoo(), Response: ok200()}},
			expected: []ExpectedExchange{{Request: &message.RequestPattern{Method: "GET", Path: "/foo"}}},
			wantRendered: strings.Join([]string{
				"GET /foo HTTP/1.1",
				"Host: www.google.com",
				"",
				"HTTP/1.1 200 OK",
			}, "\n"),
		},
		{
			name:   "excess request",
			actual: []Exchange{{Request: getFoo()}},
			wantRendered: strings.Join([]string{
				"// should be removed:",
				"// GET /foo HTTP/1.1",
				"// Host: www.google.com",
				"//",
				"// <no response>",
			}, "\n"),
			wantExcess: []int{0},
		},
		{
			name:   "missing request",
			actual: []Exchange{{Request: getFoo(), Response: ok200()}},
			expected: []ExpectedExchange{
				{Request: &message.RequestPattern{Method: "GET", Path: "/foo"}, Response: ok200()},
				{Request: &message.RequestPattern{Method: "GET", Path: "/foo"}, Response: ok200()},
			},
			wantRendered: strings.Join([]string{
				"GET /foo HTTP/1.1",
				"Host: www.google.com",
				"",
				"HTTP/1.1 200 OK",
				"",
				"// missing:",
				"// GET /foo",
				"//",
				"// HTTP/1.1 200 OK",
			}, "\n"),
			wantMissing: []int{1},
		},
		{
			name:     "mismatched path",
			actual:   []Exchange{{Request: getFoo(), Response: ok200()}},
			expected: []ExpectedExchange{{Request: &message.RequestPattern{Method: "GET", Path: "/bar"}}},
			wantRendered: strings.Join([]string{
				"GET /foo HTTP/1.1 // should be GET /bar",
				"Host: www.google.com",
				"",
				"HTTP/1.1 200 OK",
			}, "\n"),
			wantMismatched: []int{0},
		},
		{
			name:     "mismatched without response",
			actual:   []Exchange{{Request: getFoo()}},
			expected: []ExpectedExchange{{Request: &message.RequestPattern{Method: "POST"}}},
			wantRendered: strings.Join([]string{
				"GET /foo HTTP/1.1 // should be POST /foo",
				"Host: www.google.com",
				"",
				"<no response>",
			}, "\n"),
			wantMismatched: []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := DiffConversation(tt.actual, tt.expected)
			assert.Equal(t, tt.wantRendered, diff.Rendered)
			assert.Equal(t, tt.wantExcess, diff.Excess)
			assert.Equal(t, tt.wantMissing, diff.Missing)
			assert.Equal(t, tt.wantMismatched, diff.Mismatched)
			assert.Equal(t, tt.wantExcess == nil && tt.wantMissing == nil && tt.wantMismatched == nil, diff.Matched())
		})
	}
}

func TestRenderRequest(t *testing.T) {
	actual := &message.Request{
		Method: "POST",
		Path:   "/users",
		Host:   "api.example.com",
		Port:   80,
		Header: message.NewHeader("Host", "api.example.com", "Content-Type", "application/json", "X-Tenant", "acme"),
		Body:   message.ParseBody([]byte(`{"name":"ada"}`), "application/json"),
	}
	expected := &message.RequestPattern{
		Method:    "POST",
		Path:      "/users/{id}",
		Port:      intPtr(443),
		Encrypted: boolPtr(true),
		Header:    message.NewHeader("X-Tenant", "globex", "X-Token", "t"),
		Body:      message.JSONBody(map[string]any{"name": "bob"}),
	}

	b := SatisfyRequest(actual, expected)
	assert.Equal(t, []string{
		"POST /users HTTP/1.1 // should match POST /users/{id}",
		"// should have port 443",
		"// should be encrypted",
		"Host: api.example.com",
		"Content-Type: application/json",
		"X-Tenant: acme // should be globex",
		"// missing X-Token: t",
		"",
		"{",
		`  "name": "ada"`,
		"}",
		"// should satisfy:",
		"// {",
		`//   "name": "bob"`,
		"// }",
	}, RenderRequest(actual, expected, b))
}

func TestRenderRequest_MissingBody(t *testing.T) {
	expected := &message.RequestPattern{Body: message.TextBody("hello")}
	b := SatisfyRequest(getFoo(), expected)
	assert.Equal(t, []string{
		"GET /foo HTTP/1.1",
		"Host: www.google.com",
		"",
		"// missing body:",
		"// hello",
	}, RenderRequest(getFoo(), expected, b))
}

func TestRenderResponse(t *testing.T) {
	actual := &message.Response{StatusCode: 202}
	expected := &message.ResponsePattern{StatusCode: 201}
	b := SatisfyResponse(actual, expected)
	assert.Equal(t, []string{"HTTP/1.1 202 Accepted // should be 201 Created"}, RenderResponse(actual, expected, b))

	b = SatisfyResponse(actual, &message.ResponsePattern{StatusCode: 202})
	assert.Equal(t, []string{"HTTP/1.1 202 Accepted"}, RenderResponse(actual, &message.ResponsePattern{StatusCode: 202}, b))
}
