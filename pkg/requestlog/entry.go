package requestlog

import (
	"encoding/base64"
	"fmt"
	"time"
	"unicode/utf8"
)

// BodyEncodingBase64 marks a body that was not valid UTF-8.
const BodyEncodingBase64 = "base64"

// NoExpectation is the ExpectationIndex of a request that arrived after
// every expectation was consumed.
const NoExpectation = -1

// Entry captures one intercepted exchange for inspection and replay.
type Entry struct {
	// ID is a unique identifier for the exchange.
	ID string `json:"id"`

	// InvocationID groups the exchanges of one mocked invocation.
	InvocationID string `json:"invocationId,omitempty"`

	// Sequence is the position of the request within its invocation.
	Sequence int `json:"sequence"`

	// Timestamp is when the request was intercepted.
	Timestamp time.Time `json:"timestamp"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// URL is the full request url as the client sent it.
	URL string `json:"url"`

	// Path is the request path including the raw query.
	Path string `json:"path,omitempty"`

	// Headers are the request headers (multi-value).
	Headers map[string][]string `json:"headers,omitempty"`

	// Body is the request body, base64 encoded when BodyEncoding says so.
	Body string `json:"body,omitempty"`

	// BodyEncoding is empty for text bodies or "base64".
	BodyEncoding string `json:"bodyEncoding,omitempty"`

	// BodySize is the body size in bytes.
	BodySize int `json:"bodySize"`

	// ExpectationIndex is the index of the expectation the request was
	// checked against, or NoExpectation.
	ExpectationIndex int `json:"expectationIndex"`

	// State is the final state of the exchange (done, aborted, ...).
	State string `json:"state,omitempty"`

	// ResponseStatus is the status code delivered.
	ResponseStatus int `json:"responseStatus"`

	// ResponseBody is the delivered response body.
	ResponseBody string `json:"responseBody,omitempty"`

	// DurationMs is the processing time in milliseconds.
	DurationMs int64 `json:"durationMs"`

	// Error contains the error message if the exchange failed.
	Error string `json:"error,omitempty"`
}

// SetBody stores a request body, switching to base64 for binary data.
func (e *Entry) SetBody(body []byte) {
	e.BodySize = len(body)
	if utf8.Valid(body) {
		e.Body = string(body)
		e.BodyEncoding = ""
		return
	}
	e.Body = base64.StdEncoding.EncodeToString(body)
	e.BodyEncoding = BodyEncodingBase64
}

// RawBody returns the request body as it was recorded.
func (e *Entry) RawBody() ([]byte, error) {
	switch e.BodyEncoding {
	case "":
		return []byte(e.Body), nil
	case BodyEncodingBase64:
		data, err := base64.StdEncoding.DecodeString(e.Body)
		if err != nil {
			return nil, fmt.Errorf("decoding body of entry %s: %w", e.ID, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("entry %s: unknown body encoding %q", e.ID, e.BodyEncoding)
	}
}
