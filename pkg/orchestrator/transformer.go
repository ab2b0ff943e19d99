package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-formschema/pkg/schema"
)

// Transformer rewrites a parsed schema before it is resolved. Implementations
// can relabel fields, tighten rules, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, form *schema.FormSchema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *schema.FormSchema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *schema.FormSchema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, form *schema.FormSchema) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, form); err != nil {
				return err
			}
		}
		return nil
	})
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON
// document, keyed by field id:
//
//	{
//	  "formTitle": "Custom title",
//	  "fields": {
//	    "email": {"label": "Work email", "required": true,
//	              "validation": {"pattern": "@example\\.com$", "message": "Use your work address."}}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title       string                    `json:"formTitle"`
	Description string                    `json:"formDescription"`
	Fields      map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string             `json:"label"`
	Placeholder string             `json:"placeholder"`
	Required    *bool              `json:"required"`
	Validation  *schema.Validation `json:"validation"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
// Override patterns are compiled up front so a bad preset fails early.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	for id, patch := range document.Fields {
		if patch.Validation == nil {
			continue
		}
		if patch.Validation.Pattern == "" {
			return nil, fmt.Errorf("json preset transformer: field %q: pattern must not be empty", id)
		}
		if _, err := regexp.Compile(patch.Validation.Pattern); err != nil {
			return nil, fmt.Errorf("json preset transformer: field %q: %w", id, err)
		}
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied schema. A patch
// naming an unknown field id is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, form *schema.FormSchema) error {
	if form == nil {
		return errors.New("json preset transformer: schema is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		form.Title = t.document.Title
	}
	if t.document.Description != "" {
		form.Description = t.document.Description
	}

	ids := make([]string, 0, len(t.document.Fields))
	for id := range t.document.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		field := findField(form.Fields, id)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", id)
		}
		applyFieldPatch(field, t.document.Fields[id])
	}
	return nil
}

func applyFieldPatch(field *schema.Field, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Placeholder != "" && field.Type.TextLike() {
		field.Placeholder = patch.Placeholder
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Validation != nil {
		rule := *patch.Validation
		field.Validation = &rule
	}
}

func findField(fields []schema.Field, id string) *schema.Field {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	for idx := range fields {
		if fields[idx].ID == id {
			return &fields[idx]
		}
	}
	return nil
}
