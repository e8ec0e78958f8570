package normalize

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/message"
	"github.com/getmockd/mocktransport/pkg/transport"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestSplitShorthand(t *testing.T) {
	tests := []struct {
		input      string
		wantMethod string
		wantURL    string
	}{
		{"GET /", "GET", "/"},
		{"POST http://example.com/x", "POST", "http://example.com/x"},
		{"http://example.com/x", "", "http://example.com/x"},
		{"get /", "", "get /"},
		{"/foo", "", "/foo"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			method, url := SplitShorthand(tt.input)
			assert.Equal(t, tt.wantMethod, method)
			assert.Equal(t, tt.wantURL, url)
		})
	}
}

func TestExpectedRequest(t *testing.T) {
	t.Run("nil spec accepts anything", func(t *testing.T) {
		p, err := ExpectedRequest(nil)
		require.NoError(t, err)
		assert.True(t, p.IsEmpty())
	})

	t.Run("absolute url with json body", func(t *testing.T) {
		p, err := ExpectedRequest(&expect.RequestSpec{
			URL:  "POST http://example.com/x",
			Body: map[string]any{"foo": "bar"},
		})
		require.NoError(t, err)
		assert.Equal(t, "POST", p.Method)
		assert.Equal(t, "example.com", p.Host)
		assert.Equal(t, "/x", p.Path)
		assert.Nil(t, p.Port)
		assert.Nil(t, p.Encrypted)
		assert.Equal(t, "application/json", p.Header.Get("Content-Type"))
		assert.Equal(t, "example.com", p.Header.Get("Host"))
		assert.Equal(t, message.BodyJSON, p.Body.Kind())
	})

	t.Run("https infers encrypted", func(t *testing.T) {
		p, err := ExpectedRequest(expect.Req("https://h/p"))
		require.NoError(t, err)
		require.NotNil(t, p.Encrypted)
		assert.True(t, *p.Encrypted)
		assert.Equal(t, "", p.Method)
		assert.Equal(t, "/p", p.Path)
	})

	t.Run("explicit encrypted false is kept", func(t *testing.T) {
		p, err := ExpectedRequest(&expect.RequestSpec{URL: "https://h/p", Encrypted: boolPtr(false)})
		require.NoError(t, err)
		require.NotNil(t, p.Encrypted)
		assert.False(t, *p.Encrypted)
	})

	t.Run("explicit port from url", func(t *testing.T) {
		p, err := ExpectedRequest(expect.Req("GET http://localhost:8080/a?b=c"))
		require.NoError(t, err)
		require.NotNil(t, p.Port)
		assert.Equal(t, 8080, *p.Port)
		assert.Equal(t, "/a?b=c", p.Path)
		assert.Equal(t, "localhost:8080", p.Header.Get("Host"))
	})

	t.Run("caller port and host win", func(t *testing.T) {
		p, err := ExpectedRequest(&expect.RequestSpec{
			URL:     "http://localhost:8080/",
			Host:    "other",
			Port:    intPtr(9000),
			Headers: map[string]string{"host": "explicit"},
		})
		require.NoError(t, err)
		assert.Equal(t, 9000, *p.Port)
		assert.Equal(t, "other", p.Host)
		assert.Equal(t, "explicit", p.Header.Get("Host"))
	})

	t.Run("explicit method beats shorthand", func(t *testing.T) {
		p, err := ExpectedRequest(&expect.RequestSpec{Method: "PUT", URL: "GET /"})
		require.NoError(t, err)
		assert.Equal(t, "PUT", p.Method)
	})

	t.Run("stated content type is not replaced", func(t *testing.T) {
		p, err := ExpectedRequest(&expect.RequestSpec{
			Headers: map[string]string{"content-type": "application/something"},
			Body:    []any{1, 2},
		})
		require.NoError(t, err)
		assert.Equal(t, "application/something", p.Header.Get("Content-Type"))
	})

	t.Run("string body has no inferred content type", func(t *testing.T) {
		p, err := ExpectedRequest(&expect.RequestSpec{Body: "quux & xuuq"})
		require.NoError(t, err)
		assert.False(t, p.Header.Has("Content-Type"))
		assert.Equal(t, message.BodyText, p.Body.Kind())
	})

	t.Run("yaml integers compare as json numbers", func(t *testing.T) {
		p, err := ExpectedRequest(&expect.RequestSpec{Body: map[string]any{"n": 1}})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"n": float64(1)}, p.Body.Value())
	})

	t.Run("unencodable body", func(t *testing.T) {
		_, err := ExpectedRequest(&expect.RequestSpec{Body: map[string]any{"f": func() {}}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNormalization))
		var nerr *NormalizationError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, StageExpectedRequest, nerr.Stage)
	})
}

func newPending(t *testing.T, method, url string, body io.Reader, header http.Header) *transport.PendingRequest {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	return transport.NewPendingRequest(req)
}

func TestActualRequest(t *testing.T) {
	t.Run("textual body with charset", func(t *testing.T) {
		p := newPending(t, "POST", "http://www.google.com/foo", strings.NewReader("quux & xuuq"),
			http.Header{"Content-Type": {"text/plain;charset=utf-8"}})
		r, err := ActualRequest(p)
		require.NoError(t, err)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/foo", r.Path)
		assert.Equal(t, "www.google.com", r.Host)
		assert.Equal(t, 80, r.Port)
		assert.False(t, r.Encrypted)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		assert.Equal(t, message.BodyText, r.Body.Kind())
		assert.Equal(t, []string{
			"POST /foo HTTP/1.1",
			"Content-Type: text/plain",
			"Host: www.google.com",
			"",
			"quux & xuuq",
		}, r.Lines())
	})

	t.Run("https with explicit port", func(t *testing.T) {
		r, err := ActualRequest(newPending(t, "GET", "https://api.example.com:8443/a?b=1", nil, nil))
		require.NoError(t, err)
		assert.True(t, r.Encrypted)
		assert.Equal(t, 8443, r.Port)
		assert.Equal(t, "/a?b=1", r.Path)
		assert.Equal(t, "api.example.com", r.Host)
		assert.Equal(t, "api.example.com:8443", r.Header.Get("Host"))
	})

	t.Run("https default port", func(t *testing.T) {
		r, err := ActualRequest(newPending(t, "GET", "https://api.example.com/", nil, nil))
		require.NoError(t, err)
		assert.Equal(t, 443, r.Port)
		assert.True(t, r.Body.IsEmpty())
	})

	t.Run("json body", func(t *testing.T) {
		r, err := ActualRequest(newPending(t, "POST", "http://example.com/", strings.NewReader(`{"foo":"bar"}`),
			http.Header{"Content-Type": {"application/json"}}))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"foo": "bar"}, r.Body.Value())
	})

	t.Run("unreadable body", func(t *testing.T) {
		r, err := ActualRequest(newPending(t, "POST", "http://example.com/",
			iotest.ErrReader(errors.New("blob rejected")), nil))
		assert.Nil(t, r)
		require.Error(t, err)
		var nerr *NormalizationError
		require.ErrorAs(t, err, &nerr)
		assert.Equal(t, StageActualRequest, nerr.Stage)
		assert.Contains(t, err.Error(), "blob rejected")
	})

	t.Run("url without scheme", func(t *testing.T) {
		p := newPending(t, "GET", "http://example.com/", nil, nil)
		p.URL = "//example.org/rel"
		r, err := ActualRequest(p)
		require.NoError(t, err)
		assert.Equal(t, "example.org", r.Host)
		assert.Equal(t, "/rel", r.Path)
	})
}

func TestMockResponse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r, err := MockResponse(nil)
		require.NoError(t, err)
		assert.Equal(t, 200, r.StatusCode)
		assert.Equal(t, "OK", r.StatusMessage)
		assert.Equal(t, "HTTP", r.ProtocolName)
		assert.Equal(t, "1.1", r.ProtocolVersion)
		assert.True(t, r.Body.IsEmpty())
	})

	t.Run("status shorthand", func(t *testing.T) {
		r, err := MockResponse(expect.Status(201))
		require.NoError(t, err)
		assert.Equal(t, "HTTP/1.1 201 Created", r.StatusLine())
	})

	t.Run("string body verbatim", func(t *testing.T) {
		r, err := MockResponse(&expect.ResponseSpec{Body: "{\"foo\":\n123\n}"})
		require.NoError(t, err)
		assert.Equal(t, message.BodyText, r.Body.Kind())
		assert.Equal(t, "{\"foo\":\n123\n}", r.Body.Text())
	})
}

func deliverAndRead(t *testing.T, spec *expect.ResponseSpec) *message.Response {
	t.Helper()
	resp, err := MockResponse(spec)
	require.NoError(t, err)

	p := newPending(t, "GET", "http://example.com/", nil, nil)
	require.NoError(t, Deliver(p, resp))
	httpResp := p.Response()
	require.NotNil(t, httpResp)

	read, err := ReadResponse(httpResp)
	require.NoError(t, err)
	return read
}

func TestDeliver(t *testing.T) {
	t.Run("object body round trips as json", func(t *testing.T) {
		read := deliverAndRead(t, &expect.ResponseSpec{Body: map[string]any{"foo": "bar"}})
		assert.Equal(t, "application/json", read.Header.Get("Content-Type"))
		assert.Equal(t, map[string]any{"foo": "bar"}, read.Body.Value())
		assert.Equal(t, "HTTP/1.1 200 OK", read.StatusLine())
	})

	t.Run("json supplied as a string reads back structured", func(t *testing.T) {
		read := deliverAndRead(t, &expect.ResponseSpec{
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    "{\"foo\":\n123\n}",
		})
		assert.Equal(t, map[string]any{"foo": float64(123)}, read.Body.Value())
	})

	t.Run("caller content type is kept", func(t *testing.T) {
		read := deliverAndRead(t, &expect.ResponseSpec{
			Headers: map[string]string{"Content-Type": "application/vnd.api+json"},
			Body:    map[string]any{"a": true},
		})
		assert.Equal(t, "application/vnd.api+json", read.Header.Get("Content-Type"))
		assert.Equal(t, map[string]any{"a": true}, read.Body.Value())
	})

	t.Run("text body", func(t *testing.T) {
		read := deliverAndRead(t, &expect.ResponseSpec{
			Headers: map[string]string{"Content-Type": "text/html; charset=UTF-8"},
			Body:    "<!DOCTYPE html>\n<html></html>",
		})
		assert.Equal(t, "text/html; charset=UTF-8", read.Header.Get("Content-Type"))
		assert.Equal(t, "<!DOCTYPE html>\n<html></html>", read.Body.Text())
	})

	t.Run("bare", func(t *testing.T) {
		p := newPending(t, "GET", "http://example.com/", nil, nil)
		require.NoError(t, DeliverBare(p))
		assert.Equal(t, 200, p.Response().StatusCode)
		assert.ErrorIs(t, DeliverBare(p), transport.ErrAlreadyResponded)
	})
}

func TestExpectedResponse(t *testing.T) {
	pattern, err := ExpectedResponse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, pattern.StatusCode)

	pattern, err = ExpectedResponse(&expect.ResponseSpec{
		StatusCode: 201,
		Headers:    map[string]string{"x-id": "7"},
		Body:       map[string]any{"id": 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 201, pattern.StatusCode)
	assert.Equal(t, "7", pattern.Header.Get("X-Id"))
	assert.Equal(t, message.BodyJSON, pattern.Body.Kind())
	assert.Equal(t, map[string]any{"id": 7.0}, pattern.Body.Value())
}
