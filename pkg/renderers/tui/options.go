package tui

import "github.com/goliatone/go-formschema/pkg/validation"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object keyed by field id.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits "Label: value" lines in form order.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures message prefixes the renderer applies to driver output.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(validation.Values) (validation.Values, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithConfirmation shows a preview of the answers and asks for confirmation
// before returning them.
func WithConfirmation(enabled bool) Option {
	return func(r *Renderer) {
		r.confirm = enabled
	}
}

// WithValidator swaps the validation engine used for answers.
func WithValidator(v *validation.Validator) Option {
	return func(r *Renderer) {
		if v != nil {
			r.validator = v
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
