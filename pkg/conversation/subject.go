package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/message"
	"github.com/getmockd/mocktransport/pkg/normalize"
)

// Env is what a subject runs with.
type Env struct {
	// Client has the fake transport installed.
	Client *http.Client
	// BaseURL resolves relative request urls.
	BaseURL string
}

// Subject is the action under test. It issues its requests through
// env.Client and returns a value for the assertion.
type Subject func(ctx context.Context, env *Env) (any, error)

// Func adapts a function that only needs the client.
func Func(fn func(ctx context.Context, client *http.Client) (any, error)) Subject {
	return func(ctx context.Context, env *Env) (any, error) {
		return fn(ctx, env.Client)
	}
}

// Request issues the described request and yields its *http.Response.
//
// The method and url come from spec or its "METHOD url" shorthand; the
// method defaults to GET. A relative url is resolved against the host, port
// and encrypted fields when a host is given, otherwise against the base url.
// String bodies are sent verbatim and []byte bodies raw. Other bodies are
// sent as JSON with "Content-Type: application/json" unless a Content-Type
// header is given. A Host header sets the request's Host.
func Request(spec *expect.RequestSpec) Subject {
	return func(ctx context.Context, env *Env) (any, error) {
		req, err := newHTTPRequest(ctx, spec, env.BaseURL)
		if err != nil {
			return nil, err
		}
		return env.Client.Do(req)
	}
}

// RequestShorthand issues a request given as "METHOD url".
func RequestShorthand(shorthand string) Subject {
	return Request(expect.Req(shorthand))
}

func newHTTPRequest(ctx context.Context, spec *expect.RequestSpec, baseURL string) (*http.Request, error) {
	if spec == nil {
		spec = &expect.RequestSpec{}
	}

	method, rawURL := normalize.SplitShorthand(spec.URL)
	if spec.Method != "" {
		method = spec.Method
	}
	if method == "" {
		method = http.MethodGet
	}
	if rawURL == "" {
		rawURL = spec.Path
	}

	if spec.Host != "" {
		baseURL = originOf(spec)
	}
	target, err := resolveURL(baseURL, rawURL)
	if err != nil {
		return nil, fmt.Errorf("building request url: %w", err)
	}

	body, contentType, err := encodeRequestBody(spec.Body)
	if err != nil {
		return nil, err
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for name, value := range spec.Headers {
		if strings.EqualFold(name, "Host") {
			req.Host = value
			continue
		}
		req.Header.Set(name, value)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func originOf(spec *expect.RequestSpec) string {
	scheme := "http"
	if spec.Encrypted != nil && *spec.Encrypted {
		scheme = "https"
	}
	host := spec.Host
	if spec.Port != nil {
		host = net.JoinHostPort(host, strconv.Itoa(*spec.Port))
	}
	return scheme + "://" + host
}

func resolveURL(baseURL, rawURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if rawURL == "" {
		rawURL = "/"
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

func encodeRequestBody(v any) ([]byte, string, error) {
	switch b := v.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(b), "", nil
	case []byte:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encoding request body: %w", err)
		}
		return data, message.ContentTypeJSON, nil
	}
}
