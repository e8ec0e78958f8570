package matching

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/getmockd/mocktransport/pkg/message"
)

// MatchBody reports whether the actual body satisfies the expected body.
// An empty expected body always matches.
//
// A structured expected body requires a JSON actual body and matches when
// every expected key and array element is satisfied, so objects may carry
// extra keys. An expected string is parsed as JSON when the actual body is
// JSON, compared after canonicalisation when the actual content type is XML,
// and compared as raw text otherwise. Expected bytes compare exactly.
func MatchBody(expected, actual message.Body, actualContentType string) bool {
	switch expected.Kind() {
	case message.BodyNone:
		return true
	case message.BodyJSON:
		return actual.Kind() == message.BodyJSON && Satisfies(actual.Value(), expected.Value())
	case message.BodyBytes:
		return bytes.Equal(expected.Raw(), actual.Raw())
	}

	// Textual expectation.
	want := expected.Text()
	if actual.Kind() == message.BodyJSON {
		var parsed any
		if err := json.Unmarshal([]byte(want), &parsed); err == nil {
			return Satisfies(actual.Value(), parsed)
		}
		return string(actual.Raw()) == want
	}
	if message.IsXML(actualContentType) {
		if equal, ok := xmlEqual(want, actual.Text()); ok {
			return equal
		}
	}
	return actual.Text() == want
}

// Satisfies reports whether actual satisfies the expected JSON value.
// Objects match when every expected key is present and satisfied; arrays
// need the same length with every element satisfied; scalars compare with
// numeric coercion.
func Satisfies(actual, expected any) bool {
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for key, ev := range e {
			av, present := a[key]
			if !present || !Satisfies(av, ev) {
				return false
			}
		}
		return true
	case []any:
		a, ok := actual.([]any)
		if !ok || len(a) != len(e) {
			return false
		}
		for i := range e {
			if !Satisfies(a[i], e[i]) {
				return false
			}
		}
		return true
	default:
		return valuesEqual(actual, expected)
	}
}

// xmlEqual compares two XML documents after dropping indentation.
// ok is false when either side is not well-formed XML.
func xmlEqual(expected, actual string) (equal, ok bool) {
	want, err := canonicalXML(expected)
	if err != nil {
		return false, false
	}
	got, err := canonicalXML(actual)
	if err != nil {
		return false, false
	}
	return want == got, true
}

func canonicalXML(s string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(strings.TrimSpace(s)); err != nil {
		return "", err
	}
	doc.Indent(etree.NoIndent)
	return doc.WriteToString()
}

// MatchBodyPattern checks if the body matches a regex pattern.
// Uses Go's regexp package with RE2 syntax.
func MatchBodyPattern(pattern string, body []byte) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	return re.Match(body), nil
}

// ValidateBodyPattern checks if a regex pattern is valid.
// Returns an error if the pattern cannot be compiled.
func ValidateBodyPattern(pattern string) error {
	if pattern == "" {
		return nil
	}
	_, err := regexp.Compile(pattern)
	return err
}
