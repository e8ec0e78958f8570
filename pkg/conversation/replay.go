package conversation

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/requestlog"
	"github.com/getmockd/mocktransport/pkg/transport"
)

// Replay verifies a recorded conversation against expectations without
// running an action. Entries go through the same per-exchange checks as
// intercepted requests, in the order given, and the result is the error Run
// would have returned for an action that issued them and succeeded.
func Replay(entries []*requestlog.Entry, expectations expect.Expectations, opts ...Option) error {
	if err := expectations.Validate(); err != nil {
		return err
	}

	inv := newInvocation(newConfig(opts...), expectations)
	inv.log.Debug("replay started", "entries", len(entries), "expectations", expectations.Len())
	for i, entry := range entries {
		req, err := RequestFromEntry(entry)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		inv.process(transport.NewPendingRequest(req))
	}

	early := false
	select {
	case <-inv.early:
		early = true
	default:
	}
	_, err := inv.verify(outcome{}, early)
	return err
}

// RequestFromEntry rebuilds the request a log entry recorded. A recorded
// Host header becomes the request's Host.
func RequestFromEntry(entry *requestlog.Entry) (*http.Request, error) {
	u, err := url.Parse(entry.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", entry.URL, err)
	}
	body, err := entry.RawBody()
	if err != nil {
		return nil, err
	}

	method := entry.Method
	if method == "" {
		method = http.MethodGet
	}
	req := &http.Request{
		Method:     method,
		URL:        u,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header, len(entry.Headers)),
		Host:       u.Host,
		Body:       http.NoBody,
	}
	for name, values := range entry.Headers {
		if http.CanonicalHeaderKey(name) == "Host" {
			if len(values) > 0 {
				req.Host = values[0]
			}
			continue
		}
		req.Header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
	if len(body) > 0 {
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
	}
	return req, nil
}
