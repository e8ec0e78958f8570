package expect

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaSource []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON schema expectation documents are validated
// against.
func Schema() []byte {
	return bytes.Clone(schemaSource)
}

func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("expectations.json", bytes.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("expectations.json")
	})
	return compiledSchema, schemaErr
}

// SchemaError lists the problems found while validating a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "schema validation failed:\n  " + strings.Join(e.Problems, "\n  ")
}

// Unwrap lets errors.Is match ErrInvalidExpectation.
func (e *SchemaError) Unwrap() error {
	return ErrInvalidExpectation
}

// ValidateDocument checks a YAML or JSON expectation document against the
// embedded schema.
func ValidateDocument(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: parsing YAML: %w", ErrInvalidExpectation, err)
	}

	// The validator expects the value shapes produced by encoding/json.
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: document is not JSON compatible: %w", ErrInvalidExpectation, err)
	}
	var instance any
	if err := json.Unmarshal(asJSON, &instance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExpectation, err)
	}

	if err := schema.Validate(instance); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			schemaErr := &SchemaError{}
			collectProblems(validationErr, schemaErr)
			return schemaErr
		}
		return fmt.Errorf("%w: %w", ErrInvalidExpectation, err)
	}
	return nil
}

func collectProblems(err *jsonschema.ValidationError, out *SchemaError) {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		out.Problems = append(out.Problems, location+": "+err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectProblems(cause, out)
	}
}
