// Package normalize turns loosely typed expectations and intercepted
// requests into the canonical descriptors of package message, and builds and
// delivers mock responses.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/message"
	"github.com/getmockd/mocktransport/pkg/transport"
)

// ErrNormalization matches every *NormalizationError.
var ErrNormalization = errors.New("normalization failed")

// Normalization stages.
const (
	StageExpectedRequest = "expected request"
	StageActualRequest   = "actual request"
	StageResponse        = "response"
)

// NormalizationError reports input that could not be coerced into a
// canonical descriptor.
type NormalizationError struct {
	Stage string
	Err   error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalizing %s: %v", e.Stage, e.Err)
}

// Unwrap returns both ErrNormalization and the cause.
func (e *NormalizationError) Unwrap() []error {
	return []error{ErrNormalization, e.Err}
}

var (
	methodPrefix = regexp.MustCompile(`^([A-Z]+) ([\s\S]*)$`)
	absoluteURL  = regexp.MustCompile(`^https?://`)
)

// SplitShorthand splits "METHOD url" into its parts. Strings without an
// upper-case method prefix are returned as a url with no method.
func SplitShorthand(s string) (method, rawURL string) {
	if m := methodPrefix.FindStringSubmatch(s); m != nil {
		return m[1], m[2]
	}
	return "", s
}

// ExpectedRequest resolves a RequestSpec into the pattern an actual request
// must satisfy. A nil spec yields an empty pattern that accepts anything.
//
// For absolute http(s) urls the host, an explicit port and the path are
// taken from the url, encrypted is set for https unless given, and a Host
// header is added unless one is present. Structured bodies add
// "Content-Type: application/json" unless a Content-Type is present.
func ExpectedRequest(spec *expect.RequestSpec) (*message.RequestPattern, error) {
	pattern := &message.RequestPattern{}
	if spec == nil {
		return pattern, nil
	}
	spec = spec.Clone()

	method, rawURL := SplitShorthand(spec.URL)
	pattern.Method = spec.Method
	if pattern.Method == "" {
		pattern.Method = method
	}
	pattern.Host = spec.Host
	pattern.Port = spec.Port
	pattern.Encrypted = spec.Encrypted
	pattern.Header = message.HeaderFromMap(spec.Headers)

	path := rawURL
	if absoluteURL.MatchString(rawURL) {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, &NormalizationError{Stage: StageExpectedRequest, Err: err}
		}
		if !pattern.Header.Has("Host") {
			pattern.Header.Set("Host", u.Host)
		}
		if pattern.Host == "" {
			pattern.Host = u.Hostname()
		}
		if p := u.Port(); p != "" && pattern.Port == nil {
			port, err := strconv.Atoi(p)
			if err != nil {
				return nil, &NormalizationError{Stage: StageExpectedRequest, Err: err}
			}
			pattern.Port = &port
		}
		if u.Scheme == "https" && pattern.Encrypted == nil {
			encrypted := true
			pattern.Encrypted = &encrypted
		}
		path = u.RequestURI()
	}
	if spec.Path != "" {
		path = spec.Path
	}
	pattern.Path = path

	body, err := specBody(spec.Body)
	if err != nil {
		return nil, &NormalizationError{Stage: StageExpectedRequest, Err: err}
	}
	pattern.Body = body
	if isStructured(body) && !pattern.Header.Has("Content-Type") {
		pattern.Header.Set("Content-Type", message.ContentTypeJSON)
	}

	pattern.BodyJSONPath = spec.BodyJSONPath
	pattern.BodyPattern = spec.BodyPattern
	pattern.Where = spec.Where
	return pattern, nil
}

// ActualRequest reads an intercepted request into a canonical descriptor.
//
// Urls without a scheme are read as http. A Host header is added from the
// url's host, port included, when the request has none. A charset parameter
// on Content-Type is removed before comparison. Failing to read the body is
// the only error.
func ActualRequest(p *transport.PendingRequest) (*message.Request, error) {
	u, err := parseActualURL(p.URL)
	if err != nil {
		return nil, &NormalizationError{Stage: StageActualRequest, Err: err}
	}

	header := message.HeaderFromHTTP(p.RequestHeaders)
	if !header.Has("Host") {
		header.Set("Host", u.Host)
	}

	contentType := header.Get("Content-Type")
	if stripped, ok := message.StripCharset(contentType); ok {
		header.Set("Content-Type", stripped)
		contentType = stripped
	}

	raw, err := p.RequestBody()
	if err != nil {
		return nil, &NormalizationError{Stage: StageActualRequest, Err: err}
	}

	encrypted := u.Scheme == "https"
	return &message.Request{
		Method:    p.Method,
		Path:      u.RequestURI(),
		Host:      hostname(header.Get("Host")),
		Port:      effectivePort(u, encrypted),
		Encrypted: encrypted,
		Header:    header,
		Body:      message.ParseBody(raw, contentType),
	}, nil
}

func parseActualURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return url.Parse("http:" + raw)
	}
	return u, nil
}

func hostname(hostHeader string) string {
	if host, _, err := net.SplitHostPort(hostHeader); err == nil {
		return host
	}
	return strings.Trim(hostHeader, "[]")
}

func effectivePort(u *url.URL, encrypted bool) int {
	if p, err := strconv.Atoi(u.Port()); err == nil {
		return p
	}
	if encrypted {
		return 443
	}
	return 80
}

// specBody converts a loosely typed body. Structured values are passed
// through encoding/json so values decoded from YAML or built in Go compare
// the same way as bodies parsed from the wire.
func specBody(v any) (message.Body, error) {
	switch b := v.(type) {
	case nil:
		return message.NoBody(), nil
	case string:
		return message.TextBody(b), nil
	case []byte:
		return message.BytesBody(b), nil
	case message.Body:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return message.Body{}, fmt.Errorf("encoding body: %w", err)
		}
		var canonical any
		if err := json.Unmarshal(data, &canonical); err != nil {
			return message.Body{}, fmt.Errorf("decoding body: %w", err)
		}
		return message.JSONBody(canonical), nil
	}
}

func isStructured(b message.Body) bool {
	if b.Kind() != message.BodyJSON {
		return false
	}
	switch b.Value().(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
