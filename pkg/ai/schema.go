package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema declares the shape a generation response must satisfy: required
// fields, primitive types, enum membership and numeric bounds. Definition is
// a standard JSON Schema document expressed as a map literal.
type Schema struct {
	Name       string
	Definition map[string]interface{}
}

// compiled schemas are cached per name; definitions are static per process.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// Validate parses raw as JSON and checks it against the declared schema.
// Any parse error or constraint violation is returned; callers treat a
// non-nil result as a schema mismatch and must not substitute defaults.
func (s *Schema) Validate(raw string) error {
	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}

	compiled, err := s.compile()
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", s.Name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("response violates schema %q: %w", s.Name, err)
	}

	return nil
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	definition, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", s.Name)
	if err := compiler.AddResource(url, strings.NewReader(string(definition))); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, err
	}

	schemaCache.Store(s.Name, compiled)
	return compiled, nil
}

// PromptInstructions renders the schema definition as a JSON block suitable
// for embedding in a prompt so the model sees the exact expected shape.
func (s *Schema) PromptInstructions() string {
	definition, err := json.MarshalIndent(s.Definition, "", "  ")
	if err != nil {
		return ""
	}
	return string(definition)
}
