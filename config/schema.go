package config

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema generates a JSON Schema describing the YAML config [File], for
// editor validation of user config files.
func Schema() ([]byte, error) {
	schema, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, fmt.Errorf("inferring config schema: %w", err)
	}

	schema.Title = "termvid configuration"
	schema.Description = "Defaults for termvid CLI flags. Explicit flags override file values."

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding config schema: %w", err)
	}

	return append(out, '\n'), nil
}
