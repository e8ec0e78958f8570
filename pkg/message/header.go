package message

import (
	"net/http"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// headerNameExceptions lists header names whose conventional spelling is not
// plain title case.
var headerNameExceptions = map[string]string{
	"content-md5":      "Content-MD5",
	"dnt":              "DNT",
	"etag":             "ETag",
	"last-event-id":    "Last-Event-ID",
	"te":               "TE",
	"www-authenticate": "WWW-Authenticate",
	"x-xss-protection": "X-XSS-Protection",
	"x-ua-compatible":  "X-UA-Compatible",
}

// FormatHeaderName returns the standard capitalization of a header name.
// "content-type" and "CONTENT-TYPE" both become "Content-Type".
func FormatHeaderName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if formatted, ok := headerNameExceptions[lower]; ok {
		return formatted
	}

	// cases.Caser keeps state between calls and must not be shared.
	caser := cases.Title(language.Und)
	segments := strings.Split(lower, "-")
	for i, segment := range segments {
		segments[i] = caser.String(segment)
	}
	return strings.Join(segments, "-")
}

// Field is a single header line.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Header is an ordered, case-insensitive collection of header fields.
// The zero value is an empty header ready to use.
type Header struct {
	fields []Field
}

// NewHeader creates a header from name/value pairs.
// An odd trailing name is ignored.
func NewHeader(pairs ...string) Header {
	var h Header
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Add(pairs[i], pairs[i+1])
	}
	return h
}

// HeaderFromMap builds a header from a simple map. Names are added in sorted
// order so the result does not depend on map iteration.
func HeaderFromMap(m map[string]string) Header {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var h Header
	for _, name := range names {
		h.Set(name, m[name])
	}
	return h
}

// HeaderFromHTTP converts a net/http header. Names are added in sorted order.
func HeaderFromHTTP(hh http.Header) Header {
	names := make([]string, 0, len(hh))
	for name := range hh {
		names = append(names, name)
	}
	sort.Strings(names)

	var h Header
	for _, name := range names {
		for _, v := range hh[name] {
			h.Add(name, v)
		}
	}
	return h
}

// Add appends a field, keeping existing values for the same name.
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: FormatHeaderName(name), Value: value})
}

// Set replaces all values for name. A new name is appended at the end;
// an existing one keeps its position.
func (h *Header) Set(name, value string) {
	formatted := FormatHeaderName(name)
	for i, f := range h.fields {
		if f.Name == formatted {
			h.fields[i].Value = value
			h.deleteFrom(formatted, i+1)
			return
		}
	}
	h.fields = append(h.fields, Field{Name: formatted, Value: value})
}

// Del removes every value for name.
func (h *Header) Del(name string) {
	h.deleteFrom(FormatHeaderName(name), 0)
}

func (h *Header) deleteFrom(formatted string, start int) {
	kept := h.fields[:start]
	for _, f := range h.fields[start:] {
		if f.Name != formatted {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

// Has reports whether a field with the given name is present.
func (h Header) Has(name string) bool {
	formatted := FormatHeaderName(name)
	for _, f := range h.fields {
		if f.Name == formatted {
			return true
		}
	}
	return false
}

// Get returns the values for name joined with ", ", or "" when absent.
func (h Header) Get(name string) string {
	return strings.Join(h.Values(name), ", ")
}

// Values returns all values for name in order.
func (h Header) Values(name string) []string {
	formatted := FormatHeaderName(name)
	var values []string
	for _, f := range h.fields {
		if f.Name == formatted {
			values = append(values, f.Value)
		}
	}
	return values
}

// Names returns the distinct field names in first-seen order.
func (h Header) Names() []string {
	var names []string
	seen := make(map[string]bool, len(h.fields))
	for _, f := range h.fields {
		if !seen[f.Name] {
			seen[f.Name] = true
			names = append(names, f.Name)
		}
	}
	return names
}

// Fields returns a copy of the header fields.
func (h Header) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

// Len returns the number of fields.
func (h Header) Len() int {
	return len(h.fields)
}

// Clone returns an independent copy.
func (h Header) Clone() Header {
	return Header{fields: h.Fields()}
}

// HTTP converts the header to a net/http header.
func (h Header) HTTP() http.Header {
	out := make(http.Header, len(h.fields))
	for _, f := range h.fields {
		// Direct assignment keeps spellings such as "ETag".
		out[f.Name] = append(out[f.Name], f.Value)
	}
	return out
}

// Map returns the header as a map of joined values.
func (h Header) Map() map[string]string {
	out := make(map[string]string, len(h.fields))
	for _, name := range h.Names() {
		out[name] = h.Get(name)
	}
	return out
}

// Lines renders the header as "Name: value" lines.
func (h Header) Lines() []string {
	lines := make([]string, 0, len(h.fields))
	for _, f := range h.fields {
		lines = append(lines, f.Name+": "+f.Value)
	}
	return lines
}
