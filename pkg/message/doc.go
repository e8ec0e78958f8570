// Package message provides the HTTP message model shared by the normalizer,
// the matcher and the conversation verifier.
//
// Both sides of a comparison are expressed with the types in this package:
// intercepted requests and read-back responses become Request and Response
// values, while user expectations become RequestPattern and ResponsePattern
// values whose zero-valued fields are left unchecked.
//
// # Headers
//
// Header keeps fields in insertion order so rendered messages are stable.
// Names are stored in a standard capitalization (see FormatHeaderName) and all
// lookups are case-insensitive:
//
//	h := message.NewHeader()
//	h.Set("content-type", "application/json")
//	h.Get("CONTENT-TYPE") // "application/json"
//	h.Names()             // ["Content-Type"]
//
// # Bodies
//
// Body is a small tagged value: no body, text, a structured JSON value or raw
// bytes. ParseBody decides which one to build from the Content-Type, so a JSON
// payload reads back as a structured value and textual payloads as strings.
//
// # Rendering
//
// Request, Response and the pattern types render to HTTP/1.1 text lines. The
// matcher uses these lines to build the diffs reported to test authors.
package message
