package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const modulesSchema = `{
  "type": "object",
  "additionalProperties": {"type": "boolean"}
}`

const historySchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["score", "totalQuestions", "correctAnswers", "timeSpent", "grade", "achievements", "timestamp"],
    "properties": {
      "score": {"type": "integer", "minimum": 0},
      "totalQuestions": {"type": "integer", "minimum": 0},
      "correctAnswers": {"type": "integer", "minimum": 0},
      "timeSpent": {"type": "integer", "minimum": 0},
      "grade": {"type": "string"},
      "achievements": {"type": "array", "items": {"type": "string"}},
      "timestamp": {"type": "string"},
      "category": {"type": "string"},
      "difficulty": {"type": "string"}
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema map[string]*jsonschema.Schema
	schemaErr      error
)

func documentSchemas() (map[string]*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = compileSchemas(map[string]string{
			ModulesKey: modulesSchema,
			HistoryKey: historySchema,
		})
	})
	return compiledSchema, schemaErr
}

func compileSchemas(defs map[string]string) (map[string]*jsonschema.Schema, error) {
	out := make(map[string]*jsonschema.Schema, len(defs))
	c := jsonschema.NewCompiler()
	for key, def := range defs {
		parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(def))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", key, err)
		}
		url := fmt.Sprintf("schema://%s.json", key)
		if err := c.AddResource(url, parsed); err != nil {
			return nil, fmt.Errorf("add resource %s: %w", key, err)
		}
		compiled, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", key, err)
		}
		out[key] = compiled
	}
	return out, nil
}

// decodeDocument validates raw against the schema registered for key and
// unmarshals it into dst.
func decodeDocument(key string, raw []byte, dst any) error {
	schemas, err := documentSchemas()
	if err != nil {
		return err
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if schema, ok := schemas[key]; ok {
		if err := schema.Validate(parsed); err != nil {
			return fmt.Errorf("schema validation failed: %w", err)
		}
	}
	return json.Unmarshal(raw, dst)
}
