package questions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const bankSchemaURL = "schema://question-bank.json"

// bankSchema describes the on-disk dataset: an array of question records.
var bankSchema = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type": []any{"string", "integer"},
			},
			"system": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"question": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"options": map[string]any{
				"type":     "array",
				"minItems": 2,
				"items":    map[string]any{"type": "string"},
			},
			"answer": map[string]any{
				"type": "string",
			},
			"explanation": map[string]any{
				"type": "string",
			},
		},
		"required": []any{"id", "system", "question", "options", "answer", "explanation"},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledBankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, so round-trip the Go literal.
		raw, err := json.Marshal(bankSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(bankSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(bankSchemaURL)
	})
	return compiled, compileErr
}

// validateShape checks raw dataset bytes against the bank schema.
func validateShape(raw []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrMalformed{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	sch, err := compiledBankSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return &ErrMalformed{Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}
