package testing

import (
	"testing"

	"github.com/getmockd/mocktransport/pkg/conversation"
	"github.com/getmockd/mocktransport/pkg/expect"
)

// Expect runs subject under assertion with the fake transport installed and
// fails t if the conversation or the assertion does not hold. It returns
// the assertion's value.
func Expect(t testing.TB, subject conversation.Subject, expectations expect.Expectations, assertion conversation.Assertion, opts ...conversation.Option) any {
	t.Helper()
	value, err := conversation.Run(t.Context(), subject, expectations, assertion, opts...)
	if err != nil {
		t.Fatalf("mocktransport: %v", err)
		return nil
	}
	return value
}

// ExpectFile is Expect with the expectations loaded from a YAML or JSON
// file.
func ExpectFile(t testing.TB, subject conversation.Subject, path string, assertion conversation.Assertion, opts ...conversation.Option) any {
	t.Helper()
	expectations, err := expect.LoadFile(path)
	if err != nil {
		t.Fatalf("mocktransport: loading %s: %v", path, err)
		return nil
	}
	return Expect(t, subject, expectations, assertion, opts...)
}

// ExpectError runs like Expect but requires the run to fail, returning the
// error for further inspection.
func ExpectError(t testing.TB, subject conversation.Subject, expectations expect.Expectations, assertion conversation.Assertion, opts ...conversation.Option) error {
	t.Helper()
	_, err := conversation.Run(t.Context(), subject, expectations, assertion, opts...)
	if err == nil {
		t.Fatalf("mocktransport: expected the conversation to fail, but it was satisfied")
	}
	return err
}
