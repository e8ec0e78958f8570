package message

import (
	"mime"
	"strings"
)

// Common content types.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// MediaType returns the lowercased media type of a Content-Type value with
// all parameters removed. Values mime cannot parse fall back to the text
// before the first ';'.
func MediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// IsJSON reports whether the content type denotes JSON, including +json
// structured syntax suffixes.
func IsJSON(contentType string) bool {
	mt := MediaType(contentType)
	return mt == ContentTypeJSON || strings.HasSuffix(mt, "+json")
}

// IsXML reports whether the content type denotes an XML document.
func IsXML(contentType string) bool {
	mt := MediaType(contentType)
	return mt == "application/xml" || mt == "text/xml" || strings.HasSuffix(mt, "+xml")
}

// IsTextual reports whether a body with this content type should be treated
// as text rather than opaque bytes.
func IsTextual(contentType string) bool {
	mt := MediaType(contentType)
	if mt == "" {
		return false
	}
	if strings.HasPrefix(mt, "text/") || IsJSON(mt) || IsXML(mt) {
		return true
	}
	switch mt {
	case "application/javascript", "application/x-www-form-urlencoded", "application/graphql":
		return true
	}
	return false
}

// StripCharset removes a trailing charset parameter from a Content-Type
// value. It reports whether anything was removed. Values carrying other
// parameters are returned unchanged.
func StripCharset(contentType string) (string, bool) {
	base, params, found := strings.Cut(contentType, ";")
	if !found {
		return contentType, false
	}
	key, _, _ := strings.Cut(strings.TrimSpace(params), "=")
	if !strings.EqualFold(strings.TrimSpace(key), "charset") || strings.Contains(params, ";") {
		return contentType, false
	}
	return strings.TrimSpace(base), true
}
