package expect

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either a shorthand string or a request object.
func (r *RequestSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag != "!!str" {
			return fmt.Errorf("%w: line %d: request shorthand must be a string, got %s", ErrInvalidExpectation, node.Line, node.Tag)
		}
		*r = RequestSpec{URL: node.Value}
		return nil
	}

	type requestSpecAlias RequestSpec
	alias := (*requestSpecAlias)(r)
	return node.Decode(alias)
}

// UnmarshalJSON accepts either a shorthand string or a request object.
func (r *RequestSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var shorthand string
		if err := json.Unmarshal(data, &shorthand); err != nil {
			return err
		}
		*r = RequestSpec{URL: shorthand}
		return nil
	}

	type requestSpecAlias RequestSpec
	alias := (*requestSpecAlias)(r)
	return json.Unmarshal(data, alias)
}

// UnmarshalYAML accepts either a bare status code or a response object.
func (r *ResponseSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var code int
		if err := node.Decode(&code); err != nil {
			return fmt.Errorf("%w: line %d: response shorthand must be a status code", ErrInvalidExpectation, node.Line)
		}
		*r = ResponseSpec{StatusCode: code}
		return nil
	}

	type responseSpecAlias ResponseSpec
	alias := (*responseSpecAlias)(r)
	return node.Decode(alias)
}

// UnmarshalJSON accepts either a bare status code or a response object.
func (r *ResponseSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' && data[0] != 'n' {
		var code int
		if err := json.Unmarshal(data, &code); err != nil {
			return fmt.Errorf("%w: response shorthand must be a status code", ErrInvalidExpectation)
		}
		*r = ResponseSpec{StatusCode: code}
		return nil
	}

	type responseSpecAlias ResponseSpec
	alias := (*responseSpecAlias)(r)
	return json.Unmarshal(data, alias)
}

// wrapper is the {expectations: [...]} document form.
type wrapper struct {
	Expectations []Expectation `json:"expectations" yaml:"expectations"`
}

// UnmarshalYAML resolves the document form: a shorthand string, a list, an
// object with an "expectations" list, or a single expectation object.
func (e *Expectations) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var shorthand string
		if err := node.Decode(&shorthand); err != nil {
			return err
		}
		*e = Shorthand(shorthand)
		return nil
	case yaml.SequenceNode:
		var items []Expectation
		if err := node.Decode(&items); err != nil {
			return err
		}
		*e = Batch(items...)
		return nil
	case yaml.MappingNode:
		if hasMappingKey(node, "expectations") {
			var w wrapper
			if err := node.Decode(&w); err != nil {
				return err
			}
			*e = Batch(w.Expectations...)
			return nil
		}
		var item Expectation
		if err := node.Decode(&item); err != nil {
			return err
		}
		*e = Single(item)
		return nil
	default:
		return fmt.Errorf("%w: line %d: unsupported document", ErrInvalidExpectation, node.Line)
	}
}

// UnmarshalJSON resolves the same document forms as UnmarshalYAML.
func (e *Expectations) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: empty document", ErrInvalidExpectation)
	}

	switch data[0] {
	case '"':
		var shorthand string
		if err := json.Unmarshal(data, &shorthand); err != nil {
			return err
		}
		*e = Shorthand(shorthand)
		return nil
	case '[':
		var items []Expectation
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*e = Batch(items...)
		return nil
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(data, &probe); err != nil {
			return err
		}
		if _, ok := probe["expectations"]; ok {
			var w wrapper
			if err := json.Unmarshal(data, &w); err != nil {
				return err
			}
			*e = Batch(w.Expectations...)
			return nil
		}
		var item Expectation
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*e = Single(item)
		return nil
	default:
		return fmt.Errorf("%w: unsupported document", ErrInvalidExpectation)
	}
}

// MarshalJSON writes the list form for batches and the object form
// otherwise, so decoding the output yields the same form.
func (e Expectations) MarshalJSON() ([]byte, error) {
	switch e.Form() {
	case FormShorthand:
		return json.Marshal(e.items[0].Request.URL)
	case FormSingle:
		return json.Marshal(e.items[0])
	default:
		return json.Marshal(e.Items())
	}
}

func hasMappingKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Parse decodes an expectation document. YAML is a superset of JSON, so
// both formats are accepted.
func Parse(data []byte) (Expectations, error) {
	var e Expectations
	if len(bytes.TrimSpace(data)) == 0 {
		return e, fmt.Errorf("%w: empty document", ErrInvalidExpectation)
	}
	if err := yaml.Unmarshal(data, &e); err != nil {
		if errors.Is(err, ErrInvalidExpectation) {
			return Expectations{}, err
		}
		return Expectations{}, fmt.Errorf("%w: %w", ErrInvalidExpectation, err)
	}
	if err := e.Validate(); err != nil {
		return Expectations{}, err
	}
	return e, nil
}
