package matching

import (
	"fmt"
	"strings"

	"github.com/getmockd/mocktransport/pkg/message"
)

// NoResponse is rendered in place of a response that was never sent.
const NoResponse = "<no response>"

// Comment prefixes every line with "// ". Empty lines become "//".
func Comment(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if line == "" {
			out[i] = "//"
		} else {
			out[i] = "// " + line
		}
	}
	return out
}

// RenderRequest renders the actual request as HTTP/1.1 text annotated with
// every mismatch recorded in b.
func RenderRequest(actual *message.Request, expected *message.RequestPattern, b *Breakdown) []string {
	first := actual.RequestLine()
	method, path := b.Field("method"), b.Field("path")
	if (method != nil && !method.Matched) || (path != nil && !path.Matched) {
		wantMethod, wantPath := actual.Method, actual.Path
		if expected.Method != "" {
			wantMethod = expected.Method
		}
		if expected.Path != "" {
			wantPath = expected.Path
		}
		verb := "be"
		if path != nil && !path.Matched && strings.ContainsAny(expected.Path, "{*") {
			verb = "match"
		}
		first += fmt.Sprintf(" // should %s %s %s", verb, wantMethod, wantPath)
	}
	lines := []string{first}

	if f := b.Field("host"); f != nil && !f.Matched {
		lines = append(lines, fmt.Sprintf("// should have host %v", f.Expected))
	}
	if f := b.Field("port"); f != nil && !f.Matched {
		lines = append(lines, fmt.Sprintf("// should have port %v", f.Expected))
	}
	if f := b.Field("encrypted"); f != nil && !f.Matched {
		if f.Expected == true {
			lines = append(lines, "// should be encrypted")
		} else {
			lines = append(lines, "// should not be encrypted")
		}
	}

	lines = append(lines, annotateHeaders(actual.Header, b.Field("headers"))...)
	lines = append(lines, annotateBody(actual.Body, expected.Body, b)...)
	return lines
}

// RenderResponse renders the actual response annotated with every mismatch
// recorded in b.
func RenderResponse(actual *message.Response, expected *message.ResponsePattern, b *Breakdown) []string {
	first := actual.StatusLine()
	if f := b.Field("statusCode"); f != nil && !f.Matched {
		want := (&message.Response{StatusCode: expected.StatusCode}).StatusLine()
		first += " // should be " + strings.TrimPrefix(want, message.DefaultProtocolName+"/"+message.DefaultProtocolVersion+" ")
	}
	lines := []string{first}
	lines = append(lines, annotateHeaders(actual.Header, b.Field("headers"))...)
	lines = append(lines, annotateBody(actual.Body, expected.Body, b)...)
	return lines
}

func annotateHeaders(actual message.Header, f *FieldResult) []string {
	var details []HeaderDetail
	if f != nil {
		details, _ = f.Details.([]HeaderDetail)
	}
	byName := make(map[string]HeaderDetail, len(details))
	for _, d := range details {
		byName[d.Key] = d
	}

	var lines []string
	annotated := make(map[string]bool)
	for _, field := range actual.Fields() {
		line := field.Name + ": " + field.Value
		if d, ok := byName[field.Name]; ok && !d.Matched && !annotated[field.Name] {
			line += " // should be " + d.Expected
			annotated[field.Name] = true
		}
		lines = append(lines, line)
	}
	for _, d := range details {
		if !d.Present {
			lines = append(lines, "// missing "+d.Key+": "+d.Expected)
		}
	}
	return lines
}

func annotateBody(actual, expected message.Body, b *Breakdown) []string {
	var lines []string
	if bodyLines := actual.Lines(); len(bodyLines) > 0 {
		lines = append(lines, "")
		lines = append(lines, bodyLines...)
	}

	var notes []string
	if f := b.Field("body"); f != nil && !f.Matched {
		if actual.IsEmpty() {
			notes = append(notes, "// missing body:")
		} else {
			notes = append(notes, "// should satisfy:")
		}
		notes = append(notes, Comment(expected.Lines())...)
	}
	for _, name := range []string{"bodyPattern", "bodyJSONPath", "where"} {
		if f := b.Field(name); f != nil && !f.Matched {
			notes = append(notes, "// "+formatMismatch(f))
		}
	}
	if len(notes) == 0 {
		return lines
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return append(lines, notes...)
}

// Exchange is an actual request and the response delivered for it, if any.
type Exchange struct {
	Request  *message.Request
	Response *message.Response
}

// Lines renders the exchange as the request, a blank line, and the
// response or NoResponse.
func (e Exchange) Lines() []string {
	lines := e.Request.Lines()
	lines = append(lines, "")
	if e.Response == nil {
		return append(lines, NoResponse)
	}
	return append(lines, e.Response.Lines()...)
}

// ExpectedExchange is an expected request with the response declared for
// it.
type ExpectedExchange struct {
	Request  *message.RequestPattern
	Response *message.Response
}

// Lines renders the expectation as written, then the declared response.
func (e ExpectedExchange) Lines() []string {
	lines := e.Request.Lines()
	if e.Response != nil {
		lines = append(lines, "")
		lines = append(lines, e.Response.Lines()...)
	}
	return lines
}

// ConversationDiff is the outcome of comparing a whole conversation.
type ConversationDiff struct {
	// Excess lists indexes of actual exchanges beyond the expectations.
	Excess []int
	// Missing lists indexes of expectations no request reached.
	Missing []int
	// Mismatched lists indexes of paired exchanges that did not satisfy
	// their expectation.
	Mismatched []int
	// Breakdowns holds the check for each paired exchange.
	Breakdowns []*Breakdown
	// Rendered is the annotated conversation.
	Rendered string
}

// Matched reports whether the conversation satisfied its expectations.
func (d *ConversationDiff) Matched() bool {
	return len(d.Excess) == 0 && len(d.Missing) == 0 && len(d.Mismatched) == 0
}

// DiffConversation pairs actual exchanges with expectations by position.
// Responses are rendered for context but never checked.
func DiffConversation(actual []Exchange, expected []ExpectedExchange) *ConversationDiff {
	diff := &ConversationDiff{}
	var blocks [][]string

	for i := 0; i < len(actual) || i < len(expected); i++ {
		switch {
		case i < len(actual) && i < len(expected):
			b := SatisfyRequest(actual[i].Request, expected[i].Request)
			diff.Breakdowns = append(diff.Breakdowns, b)
			if b.Matched() {
				blocks = append(blocks, actual[i].Lines())
				continue
			}
			diff.Mismatched = append(diff.Mismatched, i)
			lines := RenderRequest(actual[i].Request, expected[i].Request, b)
			lines = append(lines, "")
			if actual[i].Response == nil {
				lines = append(lines, NoResponse)
			} else {
				lines = append(lines, actual[i].Response.Lines()...)
			}
			blocks = append(blocks, lines)
		case i < len(actual):
			diff.Excess = append(diff.Excess, i)
			blocks = append(blocks, append([]string{"// should be removed:"}, Comment(actual[i].Lines())...))
		default:
			diff.Missing = append(diff.Missing, i)
			blocks = append(blocks, append([]string{"// missing:"}, Comment(expected[i].Lines())...))
		}
	}

	rendered := make([]string, len(blocks))
	for i, block := range blocks {
		rendered[i] = strings.Join(block, "\n")
	}
	diff.Rendered = strings.Join(rendered, "\n\n")
	return diff
}
