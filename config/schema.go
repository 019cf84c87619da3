package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for the gitscribe configuration.
// It reflects the typed sections of Config and leaves additional top-level
// properties open, since extensions (such as `logging`) ride alongside them.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown top-level keys are extension sections, so they stay legal.
		AllowAdditionalProperties: true,
		// Expand struct references instead of using $ref for a cleaner schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	// A temporary struct without the Extensions field keeps the inline map
	// out of the reflected schema.
	type BaseConfig struct {
		Discord DiscordConfig `yaml:"discord,omitempty" jsonschema:"description=Chat surface settings"`
		GitHub  GitHubConfig  `yaml:"github,omitempty" jsonschema:"description=Repository gateway settings"`
		State   StateConfig   `yaml:"state,omitempty" jsonschema:"description=State directory and autosave settings"`
		Admin   AdminConfig   `yaml:"admin,omitempty" jsonschema:"description=Local admin endpoint settings"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "gitscribe Configuration"
	schema.Description = "Schema for gitscribe.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
