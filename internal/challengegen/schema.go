package challengegen

import (
	"github.com/galacticode/galacticode/internal/challenge"
	"github.com/galacticode/galacticode/internal/llm"
)

// PackSchema is the catalog file schema without thresholds; thresholds are
// derived from the generated points rather than asked of the model.
var PackSchema = &llm.Schema{
	Name:        "challenge-pack",
	Description: "A named pack of short coding challenges, each with one exact answer",
	Definition:  packDefinition(),
}

func packDefinition() map[string]any {
	def := make(map[string]any, len(challenge.SchemaDefinition))
	for k, v := range challenge.SchemaDefinition {
		def[k] = v
	}

	props := make(map[string]any)
	for k, v := range challenge.SchemaDefinition["properties"].(map[string]any) {
		if k != "thresholds" {
			props[k] = v
		}
	}
	def["properties"] = props
	def["required"] = []any{"name", "challenges"}
	return def
}
