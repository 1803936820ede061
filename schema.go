// FILE: lixenwraith/bundleconf/schema.go
package bundleconf

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const globalSchemaJSON = `{
  "type": "object",
  "required": ["project_name", "version", "bundle"],
  "properties": {
    "project_name": {"type": "string"},
    "version": {"type": "string"},
    "bundle": {"type": "string"},
    "url": {"type": "string"},
    "author": {"type": "string"},
    "author_email": {"type": "string"}
  }
}`

const appSchemaJSON = `{
  "type": "object",
  "required": ["app_name", "version", "bundle", "description", "sources"],
  "properties": {
    "app_name": {"type": "string"},
    "formal_name": {"type": "string"},
    "version": {"type": "string"},
    "bundle": {"type": "string"},
    "description": {"type": "string"},
    "url": {"type": "string"},
    "author": {"type": "string"},
    "author_email": {"type": "string"},
    "sources": {"type": "array", "items": {"type": "string"}},
    "requires": {"type": "array", "items": {"type": "string"}},
    "document_type": {"type": "object"},
    "template": {"type": "string"},
    "template_branch": {"type": "string"},
    "supported": {"type": "boolean"}
  }
}`

var (
	globalSchema = jsonschema.MustCompileString("global.json", globalSchemaJSON)
	appSchema    = jsonschema.MustCompileString("app.json", appSchemaJSON)
)

// checkShape validates the key set and value types of a merged
// configuration before it is decoded into a struct.
func checkShape(schema *jsonschema.Schema, app string, t Tree) error {
	// Round-trip through JSON so the validator sees only JSON value types
	data, err := json.Marshal(t.Map())
	if err != nil {
		return fmt.Errorf("marshal configuration: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return schemaValidationError(app, err)
	}
	return nil
}

// schemaValidationError converts the first leaf schema failure into a
// *ValidationError
func schemaValidationError(app string, err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{App: app, Message: err.Error()}
	}

	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}

	field := fieldFromPointer(leaf.InstanceLocation)
	subject := "global configuration"
	if app != "" {
		subject = fmt.Sprintf("configuration for %q", app)
	}
	if field != "" {
		return &ValidationError{
			App:     app,
			Field:   field,
			Message: fmt.Sprintf("invalid %s: %s: %s", subject, field, leaf.Message),
		}
	}
	return &ValidationError{
		App:     app,
		Message: fmt.Sprintf("invalid %s: %s", subject, leaf.Message),
	}
}

// fieldFromPointer returns the top-level key of a JSON pointer like
// "/sources/0"
func fieldFromPointer(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	field, _, _ := strings.Cut(ptr, "/")
	return field
}
