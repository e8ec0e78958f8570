package normalize

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/message"
	"github.com/getmockd/mocktransport/pkg/transport"
)

// MockResponse builds the response to deliver for an expectation. A nil
// spec yields "200 OK" with no headers or body.
func MockResponse(spec *expect.ResponseSpec) (*message.Response, error) {
	resp := &message.Response{
		StatusCode:      http.StatusOK,
		ProtocolName:    message.DefaultProtocolName,
		ProtocolVersion: message.DefaultProtocolVersion,
	}
	if spec != nil {
		if spec.StatusCode != 0 {
			resp.StatusCode = spec.StatusCode
		}
		resp.StatusMessage = spec.StatusMessage
		resp.Header = message.HeaderFromMap(spec.Headers)

		body, err := specBody(spec.Body)
		if err != nil {
			return nil, &NormalizationError{Stage: StageResponse, Err: err}
		}
		resp.Body = body
	}
	if resp.StatusMessage == "" {
		resp.StatusMessage = message.ReasonPhrase(resp.StatusCode)
	}
	return resp, nil
}

// ExpectedResponse resolves a ResponseSpec into the pattern a read-back
// response must satisfy. Unlike MockResponse no defaults are applied, so a
// spec without a status code accepts any status.
func ExpectedResponse(spec *expect.ResponseSpec) (*message.ResponsePattern, error) {
	pattern := &message.ResponsePattern{}
	if spec == nil {
		return pattern, nil
	}
	pattern.StatusCode = spec.StatusCode
	pattern.Header = message.HeaderFromMap(spec.Headers)

	body, err := specBody(spec.Body)
	if err != nil {
		return nil, &NormalizationError{Stage: StageResponse, Err: err}
	}
	pattern.Body = body
	return pattern, nil
}

// Deliver sends resp through the pending request. Structured bodies are
// serialised as JSON and get "Content-Type: application/json" unless a
// Content-Type was set.
func Deliver(p *transport.PendingRequest, resp *message.Response) error {
	header := resp.Header.Clone()
	data, err := resp.Body.Encode()
	if err != nil {
		return &NormalizationError{Stage: StageResponse, Err: err}
	}
	if resp.Body.Kind() == message.BodyJSON && !header.Has("Content-Type") {
		header.Set("Content-Type", message.ContentTypeJSON)
	}
	return p.Respond(resp.StatusCode, header.HTTP(), data)
}

// DeliverBare sends a bare 200 so a request that will not get its declared
// response still completes.
func DeliverBare(p *transport.PendingRequest) error {
	return p.Respond(http.StatusOK, nil, nil)
}

// ReadResponse reads an *http.Response into a canonical descriptor and
// closes its body. JSON content types decode into structured bodies.
func ReadResponse(resp *http.Response) (*message.Response, error) {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	name, version := message.DefaultProtocolName, message.DefaultProtocolVersion
	if before, after, ok := strings.Cut(resp.Proto, "/"); ok {
		name, version = before, after
	}

	statusMessage := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if statusMessage == "" {
		statusMessage = message.ReasonPhrase(resp.StatusCode)
	}

	header := message.HeaderFromHTTP(resp.Header)
	return &message.Response{
		StatusCode:      resp.StatusCode,
		StatusMessage:   statusMessage,
		ProtocolName:    name,
		ProtocolVersion: version,
		Header:          header,
		Body:            message.ParseBody(raw, header.Get("Content-Type")),
	}, nil
}
