package matching

import (
	"github.com/getmockd/mocktransport/pkg/message"
)

// HeaderDetail describes the match result for a single header.
type HeaderDetail struct {
	Key      string `json:"key"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Present  bool   `json:"present"`
	Matched  bool   `json:"matched"`
}

// MatchHeaders compares every expected header with the actual header.
// Names are case-insensitive; values must be equal. Repeated fields are
// compared in their joined form.
func MatchHeaders(expected, actual message.Header) (bool, []HeaderDetail) {
	allMatched := true
	var details []HeaderDetail
	for _, name := range expected.Names() {
		want := expected.Get(name)
		got := actual.Get(name)
		present := actual.Has(name)
		matched := present && got == want
		if !matched {
			allMatched = false
		}
		details = append(details, HeaderDetail{
			Key:      name,
			Expected: want,
			Actual:   got,
			Present:  present,
			Matched:  matched,
		})
	}
	return allMatched, details
}
