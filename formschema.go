// Package formschema turns JSON form schemas into rendered forms. The root
// package re-exports the handful of entry points most callers need; the
// pipeline stages live under pkg/.
package formschema

import (
	"context"
	"io/fs"

	internalLoader "github.com/goliatone/go-formschema/internal/loader"
	"github.com/goliatone/go-formschema/pkg/orchestrator"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Values maps field ids to raw input.
type Values = validation.Values

// NewLoader constructs a schema loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return internalLoader.New(schema.NewLoaderOptions(options...))
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Parse parses schema text. A failure is a schema.ErrorList.
func Parse(text string, options ...schema.ParseOption) (schema.FormSchema, error) {
	return schema.ParseString(text, options...)
}

// Validate checks values against every field of form.
func Validate(form schema.FormSchema, values Values) validation.Report {
	return validation.New().ValidateForm(form, values)
}

// GenerateHTML loads the schema from source and renders it with the HTML
// renderer.
func GenerateHTML(ctx context.Context, source schema.Source, options ...orchestrator.Option) ([]byte, error) {
	result, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   source,
		Renderer: html.Name,
	})
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// GenerateHTMLFromText renders schema text, typically an editor buffer, with
// the HTML renderer.
func GenerateHTMLFromText(ctx context.Context, text string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	result, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Text:          text,
		Renderer:      html.Name,
		RenderOptions: opts,
	})
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// EmbeddedTemplates exposes the built-in HTML renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
