package challenge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaDefinition is the JSON Schema for catalog files. It is shared with
// the challenge pack generator so generated packs load without conversion.
var SchemaDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{
			"type":        "string",
			"description": "Display name of the challenge pack",
		},
		"challenges": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Short heading shown above the prompt",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "The prompt shown to the player",
					},
					"answer": map[string]any{
						"type":        "string",
						"description": "The single expected answer, compared case-insensitively",
					},
					"points": map[string]any{
						"type":        "integer",
						"minimum":     1,
						"description": "Points earned for a correct answer",
					},
				},
				"required":             []any{"title", "description", "answer", "points"},
				"additionalProperties": false,
			},
		},
		"thresholds": map[string]any{
			"type":        "array",
			"minItems":    1,
			"items":       map[string]any{"type": "integer", "minimum": 0},
			"description": "Ascending minimum scores per level, starting at 0",
		},
	},
	"required":             []any{"name", "challenges", "thresholds"},
	"additionalProperties": false,
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func catalogSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		defBytes, err := json.Marshal(SchemaDefinition)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://catalog.json", def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile("schema://catalog.json")
	})
	return compiled, compileErr
}

// Parse decodes a JSON catalog, checking it against SchemaDefinition and
// Validate.
func Parse(data []byte) (Catalog, error) {
	schema, err := catalogSchema()
	if err != nil {
		return Catalog{}, fmt.Errorf("compile catalog schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Catalog{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Catalog{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadOrDefault loads the catalog at path, or returns Default when path is
// empty.
func LoadOrDefault(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Marshal encodes the catalog as indented JSON suitable for LoadFile.
func (c Catalog) Marshal() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
