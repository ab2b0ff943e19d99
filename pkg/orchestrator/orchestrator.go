package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	internalLoader "github.com/goliatone/go-formschema/internal/loader"
	"github.com/goliatone/go-formschema/internal/logger"
	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/theme"
)

const defaultRendererName = html.Name

// ErrNoSchema is returned when a request names neither a source nor text.
var ErrNoSchema = errors.New("orchestrator: source or text is required")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom schema loader.
func WithLoader(loader schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector overrides the selector used to resolve Request.Theme.
func WithThemeSelector(selector *theme.Selector) Option {
	return func(o *Orchestrator) {
		o.selector = selector
	}
}

// WithParseOptions forwards options to schema.Parse (e.g. strict kinds).
func WithParseOptions(options ...schema.ParseOption) Option {
	return func(o *Orchestrator) {
		o.parseOptions = append(o.parseOptions, options...)
	}
}

// WithSchemaTransformer registers a Transformer that can rewrite the parsed
// schema before it is resolved.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// Orchestrator coordinates the full pipeline from schema text to rendered
// output. It applies defaults (html renderer, editor themes, file/fs loader)
// while remaining open to dependency injection.
type Orchestrator struct {
	loader          schema.Loader
	registry        *render.Registry
	selector        *theme.Selector
	defaultRenderer string
	parseOptions    []schema.ParseOption
	transformer     Transformer
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a form.
type Request struct {
	// Source identifies where the schema document lives. Ignored when Text is
	// set.
	Source schema.Source

	// Text is raw schema text, typically an editor buffer.
	Text string

	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	// Theme picks an editor preset. Empty leaves RenderOptions.Theme as is.
	Theme theme.Preset

	// RenderOptions carries prefilled values, server-side errors and form
	// attributes through to the renderer.
	RenderOptions render.RenderOptions
}

// Result is the outcome of a successful Generate call.
type Result struct {
	Output      []byte
	ContentType string
	Renderer    string
	Schema      schema.FormSchema
	Form        directive.Form
}

// Warnings returns the unsupported-kind notices of the rendered form.
func (r *Result) Warnings() []string {
	if r == nil {
		return nil
	}
	return r.Form.Warnings
}

// Generate executes the loader → parser → resolver → renderer sequence. When
// the schema does not parse, the returned error wraps the schema.ErrorList so
// callers can show every issue.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	log := o.loggerFor(ctx)

	form, err := o.Parse(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := o.applyTransformer(ctx, &form); err != nil {
		return nil, err
	}

	resolved := directive.ResolveForm(form)
	for _, warning := range resolved.Warnings {
		log.Warn("field skipped", "warning", warning)
	}

	options := req.RenderOptions
	if req.Theme != "" {
		cfg, err := o.selector.SelectPreset(req.Theme)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: select theme: %w", err)
		}
		options.Theme = cfg
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, resolved, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	log.Debug("form rendered", "renderer", renderer.Name(), "fields", len(resolved.Controls), "bytes", len(output))

	return &Result{
		Output:      output,
		ContentType: renderer.ContentType(),
		Renderer:    renderer.Name(),
		Schema:      form,
		Form:        resolved,
	}, nil
}

// Parse runs the load and parse stages only.
func (o *Orchestrator) Parse(ctx context.Context, req Request) (schema.FormSchema, error) {
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return schema.FormSchema{}, err
	}
	form, err := doc.Parse(o.parseOptions...)
	if err != nil {
		return schema.FormSchema{}, fmt.Errorf("orchestrator: parse %s: %w", doc.Location(), err)
	}
	return form, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Text != "" {
		return schema.NewDocument(schema.SourceFromBuffer(""), []byte(req.Text))
	}
	if req.Source == nil {
		return schema.Document{}, ErrNoSchema
	}
	if o.loader == nil {
		return schema.Document{}, errors.New("orchestrator: loader is nil")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Get("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *schema.FormSchema) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform schema: %w", err)
	}
	return nil
}

func (o *Orchestrator) loggerFor(ctx context.Context) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return logger.FromContext(ctx)
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(schema.NewLoaderOptions())
	}
	if o.selector == nil {
		selector, err := theme.NewSelector()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: theme selector: %w", err)
			return
		}
		o.selector = selector
	}
	if o.registry == nil {
		renderer, err := html.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		registry, err := render.NewRegistry(renderer)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: registry: %w", err)
			return
		}
		o.registry = registry
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
