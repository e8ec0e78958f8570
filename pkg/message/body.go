package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// BodyKind identifies what a Body holds.
type BodyKind int

// Body kinds.
const (
	BodyNone BodyKind = iota
	BodyText
	BodyJSON
	BodyBytes
)

// String returns the kind name.
func (k BodyKind) String() string {
	switch k {
	case BodyNone:
		return "none"
	case BodyText:
		return "text"
	case BodyJSON:
		return "json"
	case BodyBytes:
		return "bytes"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// Body is a message body: nothing, text, a structured JSON value or raw bytes.
// Bodies parsed from the wire keep their raw bytes alongside the decoded form.
type Body struct {
	kind  BodyKind
	raw   []byte
	value any
}

// NoBody returns the empty body.
func NoBody() Body {
	return Body{}
}

// TextBody returns a textual body.
func TextBody(s string) Body {
	return Body{kind: BodyText, raw: []byte(s)}
}

// JSONBody returns a structured body. The value is serialised on Encode.
func JSONBody(v any) Body {
	return Body{kind: BodyJSON, value: v}
}

// BytesBody returns an opaque binary body.
func BytesBody(b []byte) Body {
	return Body{kind: BodyBytes, raw: b}
}

// ParseBody builds a Body from raw bytes using the content type:
// JSON content types decode into structured values (falling back to text
// when the payload is not valid JSON), other textual types become text and
// everything else stays as bytes. An empty payload yields NoBody.
func ParseBody(raw []byte, contentType string) Body {
	if len(raw) == 0 {
		return NoBody()
	}
	if IsJSON(contentType) {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			return Body{kind: BodyJSON, raw: raw, value: v}
		}
		return Body{kind: BodyText, raw: raw}
	}
	if IsTextual(contentType) {
		return Body{kind: BodyText, raw: raw}
	}
	return Body{kind: BodyBytes, raw: raw}
}

// Kind returns what the body holds.
func (b Body) Kind() BodyKind {
	return b.kind
}

// IsEmpty reports whether there is no body.
func (b Body) IsEmpty() bool {
	return b.kind == BodyNone
}

// Text returns the body as a string. Structured bodies are encoded as
// compact JSON.
func (b Body) Text() string {
	if b.kind == BodyJSON && b.raw == nil {
		data, err := json.Marshal(b.value)
		if err != nil {
			return fmt.Sprintf("%v", b.value)
		}
		return string(data)
	}
	return string(b.raw)
}

// Value returns the structured value of a JSON body, or nil.
func (b Body) Value() any {
	return b.value
}

// Raw returns the raw bytes the body was built from, if any.
func (b Body) Raw() []byte {
	return b.raw
}

// Encode serialises the body for delivery.
func (b Body) Encode() ([]byte, error) {
	switch b.kind {
	case BodyNone:
		return nil, nil
	case BodyJSON:
		if b.raw != nil {
			return b.raw, nil
		}
		data, err := json.Marshal(b.value)
		if err != nil {
			return nil, fmt.Errorf("encoding JSON body: %w", err)
		}
		return data, nil
	default:
		return b.raw, nil
	}
}

// Lines renders the body for diffs. JSON is indented; binary bodies that are
// not valid UTF-8 are summarised.
func (b Body) Lines() []string {
	switch b.kind {
	case BodyNone:
		return nil
	case BodyJSON:
		data, err := json.MarshalIndent(b.value, "", "  ")
		if err != nil {
			return []string{b.Text()}
		}
		return splitLines(string(data))
	case BodyBytes:
		if !utf8.Valid(b.raw) {
			return []string{fmt.Sprintf("<binary body, %d bytes>", len(b.raw))}
		}
		return splitLines(string(b.raw))
	default:
		return splitLines(string(b.raw))
	}
}

// Equal reports whether two bodies hold the same kind and content.
func (b Body) Equal(other Body) bool {
	if b.kind != other.kind {
		return false
	}
	if b.kind == BodyJSON {
		left, errL := json.Marshal(b.value)
		right, errR := json.Marshal(other.value)
		return errL == nil && errR == nil && bytes.Equal(left, right)
	}
	return bytes.Equal(b.raw, other.raw)
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return bytes2lines([]byte(s))
}

func bytes2lines(data []byte) []string {
	parts := bytes.Split(data, []byte("\n"))
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = string(bytes.TrimSuffix(p, []byte("\r")))
	}
	return lines
}
