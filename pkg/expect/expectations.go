package expect

import (
	"fmt"
)

// Form identifies how Expectations were declared.
type Form int

// Expectation forms.
const (
	// FormSingle holds exactly one expectation.
	FormSingle Form = iota
	// FormShorthand is a single expectation given as a request shorthand.
	FormShorthand
	// FormBatch is an ordered list of expectations.
	FormBatch
)

// String returns the form name.
func (f Form) String() string {
	switch f {
	case FormSingle:
		return "single"
	case FormShorthand:
		return "shorthand"
	case FormBatch:
		return "batch"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

// Expectations is the declared input of one mocked invocation.
// The zero value is an empty batch.
type Expectations struct {
	form  Form
	items []Expectation
}

// Shorthand declares one expected request by shorthand with a default
// response.
func Shorthand(request string) Expectations {
	return Expectations{form: FormShorthand, items: []Expectation{{Request: Req(request)}}}
}

// Single declares exactly one expected exchange.
func Single(e Expectation) Expectations {
	return Expectations{form: FormSingle, items: []Expectation{e}}
}

// Batch declares an ordered list of expected exchanges. An empty batch
// expects no requests at all.
func Batch(items ...Expectation) Expectations {
	copied := make([]Expectation, len(items))
	copy(copied, items)
	return Expectations{form: FormBatch, items: copied}
}

// Form returns how the expectations were declared.
func (e Expectations) Form() Form {
	if e.items == nil && e.form == FormSingle {
		return FormBatch
	}
	return e.form
}

// Len returns the number of expectations.
func (e Expectations) Len() int {
	return len(e.items)
}

// Items returns a shallow copy of the expectation list. Callers may consume
// the copy without affecting e.
func (e Expectations) Items() []Expectation {
	out := make([]Expectation, len(e.items))
	copy(out, e.items)
	return out
}

// Validate validates every expectation.
func (e Expectations) Validate() error {
	for i, item := range e.items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("expectations[%d]: %w", i, err)
		}
	}
	return nil
}
