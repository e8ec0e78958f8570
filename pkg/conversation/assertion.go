package conversation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/getmockd/mocktransport/internal/matching"
	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/message"
	"github.com/getmockd/mocktransport/pkg/normalize"
	"github.com/getmockd/mocktransport/pkg/transport"
)

// Assertion runs the subject and checks what it yields. Its value is what
// Run returns on success.
type Assertion func(ctx context.Context, subject Subject, env *Env) (any, error)

// NotToError passes when the subject returns no error and yields the
// subject's value.
func NotToError() Assertion {
	return func(ctx context.Context, subject Subject, env *Env) (any, error) {
		return subject(ctx, env)
	}
}

// Satisfies passes when check accepts the subject's value.
func Satisfies(check func(value any) error) Assertion {
	return func(ctx context.Context, subject Subject, env *Env) (any, error) {
		value, err := subject(ctx, env)
		if err != nil {
			return nil, err
		}
		if err := check(value); err != nil {
			return nil, err
		}
		return value, nil
	}
}

// ToYieldResponse passes when the subject yields an *http.Response that
// satisfies spec. It yields the response as a *message.Response.
func ToYieldResponse(spec *expect.ResponseSpec) Assertion {
	return func(ctx context.Context, subject Subject, env *Env) (any, error) {
		value, err := subject(ctx, env)
		if err != nil {
			return nil, err
		}
		httpResp, ok := value.(*http.Response)
		if !ok {
			return nil, fmt.Errorf("expected the subject to yield *http.Response, got %T", value)
		}

		actual, err := normalize.ReadResponse(httpResp)
		if err != nil {
			return nil, err
		}
		pattern, err := normalize.ExpectedResponse(spec)
		if err != nil {
			return nil, err
		}

		b := matching.SatisfyResponse(actual, pattern)
		if b.Matched() {
			return actual, nil
		}
		var lines []string
		if reqLines := describeRequest(httpResp.Request); len(reqLines) > 0 {
			lines = append(reqLines, "")
		}
		lines = append(lines, matching.RenderResponse(actual, pattern, b)...)
		return nil, &ResponseMismatchError{Reason: b.Reason, Rendered: strings.Join(lines, "\n")}
	}
}

// describeRequest renders the request a response answered, re-reading its
// body when the request can replay it.
func describeRequest(req *http.Request) []string {
	if req == nil {
		return nil
	}
	clone := req.Clone(context.Background())
	clone.Body = http.NoBody
	if req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			clone.Body = body
		}
	}
	actual, err := normalize.ActualRequest(transport.NewPendingRequest(clone))
	if err != nil {
		return []string{(&message.Request{Method: req.Method, Path: req.URL.RequestURI()}).RequestLine()}
	}
	return actual.Lines()
}
