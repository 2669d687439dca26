package model

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/*.json
var schemaFS embed.FS

// PreviewActionSchema is the schema of the previewResume action payload.
const PreviewActionSchema = "preview_action.schema.json"

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Schema string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed (%s): %s", e.Schema, strings.Join(e.Issues, "; "))
}

// ValidateMap validates a generic map against the named embedded schema.
func ValidateMap(schema string, m map[string]interface{}) error {
	raw, err := schemaFS.ReadFile("schema/" + schema)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", schema, err)
	}

	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(raw), gojsonschema.NewGoLoader(m))
	if err != nil {
		return fmt.Errorf("validate against %s: %w", schema, err)
	}
	if res.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: schema}
	for _, e := range res.Errors() {
		verr.Issues = append(verr.Issues, e.String())
	}
	return verr
}
