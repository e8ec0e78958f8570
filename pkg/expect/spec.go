package expect

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidExpectation is returned for expectation input that cannot be
// decoded or fails validation.
var ErrInvalidExpectation = errors.New("invalid expectation")

// RequestSpec describes an expected request. Zero-valued fields are not
// checked.
type RequestSpec struct {
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	// URL may carry a method prefix ("GET /foo") and may be absolute, in
	// which case host, port, scheme and path are taken from it.
	URL       string            `json:"url,omitempty" yaml:"url,omitempty"`
	Path      string            `json:"path,omitempty" yaml:"path,omitempty"`
	Host      string            `json:"host,omitempty" yaml:"host,omitempty"`
	Port      *int              `json:"port,omitempty" yaml:"port,omitempty"`
	Encrypted *bool             `json:"encrypted,omitempty" yaml:"encrypted,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Body is a string, a []byte, or a structured value (map or slice)
	// compared as JSON.
	Body any `json:"body,omitempty" yaml:"body,omitempty"`

	BodyJSONPath map[string]any `json:"bodyJSONPath,omitempty" yaml:"bodyJSONPath,omitempty"`
	BodyPattern  string         `json:"bodyPattern,omitempty" yaml:"bodyPattern,omitempty"`
	Where        string         `json:"where,omitempty" yaml:"where,omitempty"`
}

// Req returns a RequestSpec for a shorthand string such as "GET /foo".
func Req(shorthand string) *RequestSpec {
	return &RequestSpec{URL: shorthand}
}

// Clone returns a copy that shares no maps with r.
func (r *RequestSpec) Clone() *RequestSpec {
	if r == nil {
		return nil
	}
	c := *r
	if r.Headers != nil {
		c.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			c.Headers[k] = v
		}
	}
	if r.BodyJSONPath != nil {
		c.BodyJSONPath = make(map[string]any, len(r.BodyJSONPath))
		for k, v := range r.BodyJSONPath {
			c.BodyJSONPath[k] = v
		}
	}
	if r.Port != nil {
		port := *r.Port
		c.Port = &port
	}
	if r.Encrypted != nil {
		encrypted := *r.Encrypted
		c.Encrypted = &encrypted
	}
	return &c
}

// Validate checks the fields that can be checked without normalizing.
func (r *RequestSpec) Validate() error {
	if r == nil {
		return nil
	}
	if r.Method != "" && strings.ToUpper(r.Method) != r.Method {
		return fmt.Errorf("%w: method %q must be upper case", ErrInvalidExpectation, r.Method)
	}
	if r.Port != nil && (*r.Port <= 0 || *r.Port > 65535) {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidExpectation, *r.Port)
	}
	return nil
}

// ResponseSpec describes the response to deliver for a matched request.
type ResponseSpec struct {
	StatusCode    int               `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	StatusMessage string            `json:"statusMessage,omitempty" yaml:"statusMessage,omitempty"`
	Headers       map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Body is sent verbatim when it is a string or []byte; anything else is
	// serialised as JSON.
	Body any `json:"body,omitempty" yaml:"body,omitempty"`
}

// Status returns a ResponseSpec with only a status code.
func Status(code int) *ResponseSpec {
	return &ResponseSpec{StatusCode: code}
}

// Validate checks the status code range.
func (r *ResponseSpec) Validate() error {
	if r == nil || r.StatusCode == 0 {
		return nil
	}
	if r.StatusCode < 100 || r.StatusCode > 599 {
		return fmt.Errorf("%w: status code %d out of range", ErrInvalidExpectation, r.StatusCode)
	}
	return nil
}

// Expectation is one expected request and the response to deliver for it.
type Expectation struct {
	Request  *RequestSpec  `json:"request,omitempty" yaml:"request,omitempty"`
	Response *ResponseSpec `json:"response,omitempty" yaml:"response,omitempty"`
}

// Validate validates both halves.
func (e Expectation) Validate() error {
	if err := e.Request.Validate(); err != nil {
		return err
	}
	return e.Response.Validate()
}
