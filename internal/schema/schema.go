package schema

import (
	"bytes"
	"dsbplan-backend/internal/plan"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Default is the published schema of the multi-course document.
//
//go:embed substitution.schema.json
var Default []byte

// Validator checks a document before it is handed out.
type Validator interface {
	Validate(doc plan.Document) error
}

type Violation struct {
	// Path is a JSON pointer into the document, "/" for the root.
	Path    string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

type SchemaValidationError struct {
	Violations []Violation
}

func (e *SchemaValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("document does not match schema: %s", strings.Join(parts, "; "))
}

// JSONSchemaValidator validates documents against a JSON Schema.
type JSONSchemaValidator struct {
	schema *jsonschema.Schema
}

// Compile compiles the schema in source, name is only used to identify it in errors.
func Compile(name string, source []byte) (JSONSchemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	err := compiler.AddResource(name, bytes.NewReader(source))
	if err != nil {
		return JSONSchemaValidator{}, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return JSONSchemaValidator{}, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return JSONSchemaValidator{schema: compiled}, nil
}

func Load(path string) (JSONSchemaValidator, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return JSONSchemaValidator{}, fmt.Errorf("read schema: %w", err)
	}
	return Compile(path, source)
}

func (v JSONSchemaValidator) Validate(doc plan.Document) error {
	encoded, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return v.ValidateJSON(encoded)
}

// ValidateJSON validates a serialized document, violations are returned as a
// *SchemaValidationError, malformed JSON as a plain error.
func (v JSONSchemaValidator) ValidateJSON(data []byte) error {
	var instance any
	err := json.Unmarshal(data, &instance)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	err = v.schema.Validate(instance)
	if err == nil {
		return nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	var violations []Violation
	collectViolations(validationErr, &violations)
	return &SchemaValidationError{Violations: violations}
}

// collectViolations keeps the leaves of the error tree, the inner nodes only say that a
// subschema failed.
func collectViolations(err *jsonschema.ValidationError, out *[]Violation) {
	if len(err.Causes) == 0 {
		path := err.InstanceLocation
		if path == "" {
			path = "/"
		}
		*out = append(*out, Violation{Path: path, Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}

// Noop accepts every document, it is used when validation is skipped.
type Noop struct{}

func (Noop) Validate(plan.Document) error {
	return nil
}

// Embedded is the schema path that selects Default instead of a file.
const Embedded = "embedded"

// LoadOrDefault loads the schema at path, an empty path or Embedded selects Default.
func LoadOrDefault(path string) (JSONSchemaValidator, error) {
	if path == "" || path == Embedded {
		return Compile("substitution.schema.json", Default)
	}
	return Load(path)
}

// New loads the schema at path, or returns Noop without reading anything when skip is set.
func New(path string, skip bool) (Validator, error) {
	if skip {
		return Noop{}, nil
	}
	validator, err := LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	return validator, nil
}
