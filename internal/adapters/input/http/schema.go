package http

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// lightStateSchema accepts any Hue state body but constrains the fields the
// bridge acts on.
const lightStateSchema = `{
	"type": "object",
	"properties": {
		"on": {"type": "boolean"},
		"bri": {"type": "integer", "minimum": 0, "maximum": 254}
	}
}`

func compileSchema(name, doc string) (*jsonschema.Schema, error) {
	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, parsed); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	return c.Compile(name)
}
