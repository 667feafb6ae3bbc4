package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates a JSON schema from a Go value.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	value    any
	pkgPaths []string
}

// NewSchemaGenerator creates a [SchemaGenerator] for v. Go doc comments from
// the given package paths are included as schema descriptions.
func NewSchemaGenerator(v any, pkgPaths ...string) *SchemaGenerator {
	return &SchemaGenerator{
		value:    v,
		pkgPaths: pkgPaths,
	}
}

// Generate reflects the value into an indented JSON schema document.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	for _, pkgPath := range g.pkgPaths {
		err := r.AddGoComments(pkgPath, "./")
		if err != nil {
			return nil, fmt.Errorf("add go comments for %s: %w", pkgPath, err)
		}
	}

	schema := r.Reflect(g.value)

	jsData, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(jsData, '\n'), nil
}
