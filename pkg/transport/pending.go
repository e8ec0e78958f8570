package transport

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// PendingRequest is a request intercepted by a Fake that is waiting for
// its response.
type PendingRequest struct {
	// Method is the request method, e.g. "GET".
	Method string
	// URL is the request URL as the client built it.
	URL string
	// RequestHeaders holds a copy of the request headers. An explicit
	// req.Host that differs from the URL host is carried as "Host".
	RequestHeaders http.Header

	req      *http.Request
	response chan *http.Response

	bodyOnce sync.Once
	body     []byte
	bodyErr  error

	mu        sync.Mutex
	responded bool
}

// NewPendingRequest wraps req without sending it anywhere. Respond on the
// result only buffers the response.
func NewPendingRequest(req *http.Request) *PendingRequest {
	headers := req.Header.Clone()
	if headers == nil {
		headers = make(http.Header)
	}
	if req.Host != "" && req.URL != nil && req.Host != req.URL.Host {
		headers["Host"] = []string{req.Host}
	}

	url := ""
	if req.URL != nil {
		url = req.URL.String()
	}

	return &PendingRequest{
		Method:         req.Method,
		URL:            url,
		RequestHeaders: headers,
		req:            req,
		// Buffered so Respond never blocks when RoundTrip has given up.
		response: make(chan *http.Response, 1),
	}
}

// Response returns the delivered response, or nil when Respond has not been
// called or RoundTrip already took it.
func (p *PendingRequest) Response() *http.Response {
	select {
	case resp := <-p.response:
		p.response <- resp
		return resp
	default:
		return nil
	}
}

// Request returns the underlying request.
func (p *PendingRequest) Request() *http.Request {
	return p.req
}

// RequestBody reads and returns the request body. The body is read once and
// closed; later calls return the same result.
func (p *PendingRequest) RequestBody() ([]byte, error) {
	p.bodyOnce.Do(func() {
		if p.req.Body == nil || p.req.Body == http.NoBody {
			return
		}
		defer func() { _ = p.req.Body.Close() }()
		p.body, p.bodyErr = io.ReadAll(p.req.Body)
		if p.bodyErr != nil {
			p.bodyErr = fmt.Errorf("reading request body: %w", p.bodyErr)
		}
	})
	return p.body, p.bodyErr
}

// Respond delivers the response to the waiting RoundTrip. It may be called
// once; later calls return ErrAlreadyResponded.
func (p *PendingRequest) Respond(statusCode int, header http.Header, body []byte) error {
	p.mu.Lock()
	if p.responded {
		p.mu.Unlock()
		return ErrAlreadyResponded
	}
	p.responded = true
	p.mu.Unlock()

	// Make sure the body is consumed and closed even when nothing read it.
	_, _ = p.RequestBody()

	if header == nil {
		header = make(http.Header)
	}
	if body == nil {
		body = []byte{}
	}

	resp := &http.Response{
		Status:        fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode:    statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       p.req,
	}
	if p.Method == http.MethodHead {
		resp.Body = http.NoBody
	}

	p.response <- resp
	return nil
}

// Responded reports whether Respond has been called.
func (p *PendingRequest) Responded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.responded
}
