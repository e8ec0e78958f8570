package message

import (
	"fmt"
	"net/http"
)

// Protocol defaults used for synthesised and intercepted messages.
const (
	DefaultProtocolName    = "HTTP"
	DefaultProtocolVersion = "1.1"
)

// ReasonPhrase returns the standard reason phrase for a status code, or ""
// for unknown codes.
func ReasonPhrase(code int) string {
	return http.StatusText(code)
}

// Request is the canonical descriptor of an actual request.
type Request struct {
	Method string `json:"method"`
	// Path is the URL path including the raw query, e.g. "/search?q=go".
	Path      string `json:"path"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Encrypted bool   `json:"encrypted"`
	Header    Header `json:"-"`
	Body      Body   `json:"-"`
}

// RequestLine returns "METHOD path HTTP/1.1".
func (r *Request) RequestLine() string {
	path := r.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s %s %s/%s", r.Method, path, DefaultProtocolName, DefaultProtocolVersion)
}

// Lines renders the request as HTTP/1.1 text.
func (r *Request) Lines() []string {
	return renderMessage(r.RequestLine(), r.Header, r.Body)
}

// Response is the canonical descriptor of a response, either synthesised
// from an expectation or read back from the transport.
type Response struct {
	StatusCode      int    `json:"statusCode"`
	StatusMessage   string `json:"statusMessage"`
	ProtocolName    string `json:"protocolName"`
	ProtocolVersion string `json:"protocolVersion"`
	Header          Header `json:"-"`
	Body            Body   `json:"-"`
}

// StatusLine returns e.g. "HTTP/1.1 200 OK".
func (r *Response) StatusLine() string {
	name := r.ProtocolName
	if name == "" {
		name = DefaultProtocolName
	}
	version := r.ProtocolVersion
	if version == "" {
		version = DefaultProtocolVersion
	}
	message := r.StatusMessage
	if message == "" {
		message = ReasonPhrase(r.StatusCode)
	}
	line := fmt.Sprintf("%s/%s %d", name, version, r.StatusCode)
	if message != "" {
		line += " " + message
	}
	return line
}

// Lines renders the response as HTTP/1.1 text.
func (r *Response) Lines() []string {
	return renderMessage(r.StatusLine(), r.Header, r.Body)
}

// RequestPattern is the partial request shape an actual Request must
// satisfy. Empty strings, nil pointers, an empty header and NoBody are not
// checked.
type RequestPattern struct {
	Method    string
	Path      string
	Host      string
	Port      *int
	Encrypted *bool
	Header    Header
	Body      Body

	// BodyJSONPath maps JSONPath expressions to expected values or to an
	// {"exists": bool} check.
	BodyJSONPath map[string]any
	// BodyPattern is an RE2 expression the textual body must match.
	BodyPattern string
	// Where is an expr-lang boolean expression over the actual request.
	Where string
}

// IsEmpty reports whether the pattern accepts any request.
func (p *RequestPattern) IsEmpty() bool {
	return p.Method == "" && p.Path == "" && p.Host == "" && p.Port == nil &&
		p.Encrypted == nil && p.Header.Len() == 0 && p.Body.IsEmpty() &&
		len(p.BodyJSONPath) == 0 && p.BodyPattern == "" && p.Where == ""
}

// Lines renders the pattern the way test authors wrote it: "METHOD path"
// without a protocol, then the expected headers and body. Host, port and
// encrypted constraints are not rendered.
func (p *RequestPattern) Lines() []string {
	first := p.Method
	if p.Path != "" {
		if first != "" {
			first += " "
		}
		first += p.Path
	}
	lines := []string{first}
	lines = append(lines, p.Header.Lines()...)
	if body := p.Body.Lines(); len(body) > 0 {
		lines = append(lines, "")
		lines = append(lines, body...)
	}
	return lines
}

// ResponsePattern is the partial response shape a read-back Response must
// satisfy. A zero StatusCode is not checked.
type ResponsePattern struct {
	StatusCode   int
	Header       Header
	Body         Body
	BodyJSONPath map[string]any
}

func renderMessage(first string, h Header, body Body) []string {
	lines := []string{first}
	lines = append(lines, h.Lines()...)
	if bodyLines := body.Lines(); len(bodyLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, bodyLines...)
	}
	return lines
}
