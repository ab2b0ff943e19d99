// Package html renders resolved forms and the editor page as HTML using the
// embedded pongo2 templates.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/render"
	rendertemplate "github.com/goliatone/go-formschema/pkg/render/template"
	"github.com/goliatone/go-formschema/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formschema/pkg/theme"
)

// Name is the registry key of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	title            string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPageTitle sets the <title> of the editor page.
func WithPageTitle(title string) Option {
	return func(cfg *config) {
		if title != "" {
			cfg.title = title
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	title     string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{title: "Form Schema Editor"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, title: cfg.title}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form fragment. Unsupported controls are omitted.
func (r *Renderer) Render(_ context.Context, form directive.Form, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate(FormTemplate, formView(form, options))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	return []byte(result), nil
}

// PreviewRow is one label/value pair of the submission preview.
type PreviewRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Receipt describes a completed submission.
type Receipt struct {
	ID          string `json:"id"`
	SubmittedAt string `json:"submitted_at"`
}

// Page is everything the editor page shows.
type Page struct {
	EditorText   string
	Form         *directive.Form
	Options      render.RenderOptions
	SchemaErrors []string
	Warnings     []string
	SampleStaged bool
	Preview      []PreviewRow
	Receipt      *Receipt
}

// RenderPage produces the full editor document: schema editor, error list,
// live form, preview overlay and theme controls.
func (r *Renderer) RenderPage(ctx context.Context, page Page) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	var formHTML string
	if page.Form != nil {
		out, err := r.Render(ctx, *page.Form, page.Options)
		if err != nil {
			return nil, err
		}
		formHTML = string(out)
	}

	cfg := page.Options.Theme
	preset := cfg.Preset()
	data := map[string]any{
		"title":         r.title,
		"variant":       string(preset),
		"editor_theme":  cfg.EditorTheme(),
		"style":         cfg.StyleDeclarations(),
		"dark_label":    theme.DarkButtonLabel(preset),
		"show_light":    theme.ShowLightButton(preset),
		"editor_text":   page.EditorText,
		"schema_errors": page.SchemaErrors,
		"warnings":      page.Warnings,
		"form_html":     formHTML,
		"staged":        page.SampleStaged,
		"preview":       page.Preview,
	}
	if page.Receipt != nil {
		data["receipt"] = page.Receipt
	}

	result, err := r.templates.RenderTemplate(PageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(result), nil
}
