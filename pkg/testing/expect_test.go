package testing

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	stdtesting "testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktransport/pkg/conversation"
	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/message"
)

// fatalRecorder captures Fatalf instead of stopping the test.
type fatalRecorder struct {
	stdtesting.TB
	fatal string
}

func (r *fatalRecorder) Fatalf(format string, args ...any) {
	r.fatal = fmt.Sprintf(format, args...)
}

func TestExpect_Satisfied(t *stdtesting.T) {
	got := Expect(t,
		conversation.RequestShorthand("GET http://api.example.com/users/1"),
		expect.Single(expect.Expectation{
			Request:  expect.Req("GET http://api.example.com/users/1"),
			Response: &expect.ResponseSpec{StatusCode: 200, Body: map[string]any{"id": 1.0}},
		}),
		conversation.ToYieldResponse(&expect.ResponseSpec{StatusCode: 200, Body: map[string]any{"id": 1.0}}),
	)

	resp, ok := got.(*message.Response)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestExpect_FailsOnMismatch(t *stdtesting.T) {
	rec := &fatalRecorder{TB: t}
	got := Expect(rec,
		conversation.RequestShorthand("GET http://api.example.com/a"),
		expect.Batch(),
		nil,
	)

	assert.Nil(t, got)
	assert.Contains(t, rec.fatal, "mocktransport: conversation did not satisfy its expectations")
	assert.Contains(t, rec.fatal, "// should be removed:")
}

func TestExpectError(t *stdtesting.T) {
	t.Run("returns the failure", func(t *stdtesting.T) {
		err := ExpectError(t,
			conversation.RequestShorthand("POST http://api.example.com/a"),
			expect.Shorthand("GET http://api.example.com/a"),
			nil,
		)
		assert.ErrorIs(t, err, conversation.ErrRequestMismatch)
	})

	t.Run("fails when satisfied", func(t *stdtesting.T) {
		rec := &fatalRecorder{TB: t}
		err := ExpectError(rec,
			conversation.RequestShorthand("GET http://api.example.com/a"),
			expect.Shorthand("GET http://api.example.com/a"),
			nil,
		)
		assert.NoError(t, err)
		assert.Contains(t, rec.fatal, "expected the conversation to fail")
	})
}

func TestExpectFile(t *stdtesting.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.yaml")
	fixture := "- request: GET http://api.example.com/users\n  response: 200\n" +
		"- request: POST http://api.example.com/users\n  response: 201\n"
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	subject := conversation.Func(func(ctx context.Context, client *http.Client) (any, error) {
		var statuses []int
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			req, err := http.NewRequestWithContext(ctx, method, "http://api.example.com/users", nil)
			if err != nil {
				return nil, err
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, err
			}
			_ = resp.Body.Close()
			statuses = append(statuses, resp.StatusCode)
		}
		return statuses, nil
	})

	got := ExpectFile(t, subject, path, nil)
	assert.Equal(t, []int{200, 201}, got)
}

func TestExpectFile_MissingFile(t *stdtesting.T) {
	rec := &fatalRecorder{TB: t}
	got := ExpectFile(rec, conversation.RequestShorthand("GET /"), filepath.Join(t.TempDir(), "none.yaml"), nil)

	assert.Nil(t, got)
	assert.Contains(t, rec.fatal, "mocktransport: loading")
}
