package conversation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getmockd/mocktransport/pkg/expect"
	"github.com/getmockd/mocktransport/pkg/normalize"
)

// Sentinel errors for errors.Is.
var (
	// ErrRequestMismatch matches every *MismatchError.
	ErrRequestMismatch = errors.New("request did not satisfy its expectation")
	// ErrConversationMismatch matches every *ConversationError.
	ErrConversationMismatch = errors.New("conversation did not satisfy its expectations")
	// ErrResponseMismatch matches every *ResponseMismatchError.
	ErrResponseMismatch = errors.New("response did not satisfy its expectation")
	// ErrActionFailed matches every *ActionError.
	ErrActionFailed = errors.New("action failed")

	ErrNormalization      = normalize.ErrNormalization
	ErrInvalidExpectation = expect.ErrInvalidExpectation
)

// NormalizationError reports a request or response that could not be
// normalized.
type NormalizationError = normalize.NormalizationError

// MismatchError reports an intercepted request that did not satisfy the
// expectation it was checked against. No response was declared for it.
type MismatchError struct {
	// Index is the position of the expectation.
	Index int
	// Reason summarises the first mismatching field.
	Reason string
	// Rendered is the actual request annotated with every mismatch.
	Rendered string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("request %d did not satisfy its expectation: %s\n\n%s", e.Index, e.Reason, e.Rendered)
}

func (e *MismatchError) Unwrap() error {
	return ErrRequestMismatch
}

// ConversationError reports a conversation with excess, missing or
// mismatched exchanges. Indexes refer to positions in the conversation.
type ConversationError struct {
	Excess     []int
	Missing    []int
	Mismatched []int
	Rendered   string
}

func (e *ConversationError) Error() string {
	var parts []string
	if n := len(e.Excess); n > 0 {
		parts = append(parts, fmt.Sprintf("%d excess", n))
	}
	if n := len(e.Missing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", n))
	}
	if n := len(e.Mismatched); n > 0 {
		parts = append(parts, fmt.Sprintf("%d mismatched", n))
	}
	return fmt.Sprintf("%s (%s):\n\n%s", ErrConversationMismatch, strings.Join(parts, ", "), e.Rendered)
}

func (e *ConversationError) Unwrap() error {
	return ErrConversationMismatch
}

// ResponseMismatchError is returned by ToYieldResponse when the response the
// action got does not satisfy the expected one.
type ResponseMismatchError struct {
	Reason string
	// Rendered is the request followed by the annotated response.
	Rendered string
}

func (e *ResponseMismatchError) Error() string {
	return fmt.Sprintf("%s: %s\n\n%s", ErrResponseMismatch, e.Reason, e.Rendered)
}

func (e *ResponseMismatchError) Unwrap() error {
	return ErrResponseMismatch
}

// ActionError wraps a failure of the action or of its delegated assertion.
// It is only reported when the interceptor captured nothing.
type ActionError struct {
	Err error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrActionFailed, e.Err)
}

// Unwrap returns both ErrActionFailed and the cause.
func (e *ActionError) Unwrap() []error {
	return []error{ErrActionFailed, e.Err}
}
