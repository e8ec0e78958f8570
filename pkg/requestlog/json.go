package requestlog

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document is the JSON form of a dumped log.
type Document struct {
	Entries []*Entry `json:"entries"`
}

// WriteJSON writes every entry, oldest first, as an indented Document.
func (s *MemoryStore) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Entries: s.Entries()}); err != nil {
		return fmt.Errorf("writing request log: %w", err)
	}
	return nil
}

// ReadJSON reads a Document written by WriteJSON. A bare JSON array of
// entries is accepted too.
func ReadJSON(r io.Reader) ([]*Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading request log: %w", err)
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing request log: %w", err)
	}
	return doc.Entries, nil
}
