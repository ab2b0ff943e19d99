// Package testsupport holds fixture helpers shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/schema"
)

// ContactSchema is a small schema exercising every supported field kind.
const ContactSchema = `{
  "formTitle": "Contact",
  "formDescription": "Tell us about your project",
  "fields": [
    {"id": "name", "type": "text", "label": "Name", "required": true, "placeholder": "Jane Doe"},
    {"id": "email", "type": "email", "label": "Email", "required": true,
     "validation": {"pattern": "^[^@\\s]+@[^@\\s]+$", "message": "Enter a valid email address."}},
    {"id": "industry", "type": "select", "label": "Industry", "required": true,
     "options": [{"value": "tech", "label": "Technology"}, {"value": "health", "label": "Healthcare"}]},
    {"id": "timeline", "type": "radio", "label": "Timeline",
     "options": [{"value": "asap", "label": "ASAP"}, {"value": "later", "label": "Later"}]},
    {"id": "comments", "type": "textarea", "label": "Comments", "placeholder": "Anything else?"}
  ]
}`

// MustParseSchema parses raw schema text, failing the test on error.
func MustParseSchema(t *testing.T, raw string) schema.FormSchema {
	t.Helper()

	form, err := schema.ParseString(raw)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return form
}

// ContactForm returns the resolved directives for ContactSchema.
func ContactForm(t *testing.T) (schema.FormSchema, directive.Form) {
	t.Helper()

	form := MustParseSchema(t, ContactSchema)
	return form, directive.ResolveForm(form)
}

// LoadSchemaFromPath reads and parses a schema fixture without requiring
// testing.T, for setup code outside a test body.
func LoadSchemaFromPath(path string) (schema.FormSchema, error) {
	if path == "" {
		return schema.FormSchema{}, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("testsupport: read schema: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc.Parse()
}

// MustLoadSchema is LoadSchemaFromPath for tests.
func MustLoadSchema(t *testing.T, path string) schema.FormSchema {
	t.Helper()

	form, err := LoadSchemaFromPath(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return form
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
