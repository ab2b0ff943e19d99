// Package tui collects form answers interactively in a terminal. Each control
// becomes a prompt; answers are checked with the validation engine and the
// prompt repeats until the value is accepted.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// Name is the registry key of the terminal renderer.
const Name = "tui"

// skipLabel is offered for optional radio groups, which have no empty choice.
const skipLabel = "(skip)"

// Renderer implements render.Renderer for terminal sessions.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	validator         *validation.Validator
	submitTransformer SubmitTransformer
	confirm           bool
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		validator:    validation.New(),
		theme:        Theme{ErrorPrefix: "✗ "},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}

	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every rendered control in order and serializes the
// answers. opts.Values seeds prompt defaults; opts.Errors are shown before the
// matching prompt.
func (r *Renderer) Render(ctx context.Context, form directive.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	if form.Title != "" {
		if err := r.info(ctx, r.theme.InfoPrefix+form.Title); err != nil {
			return nil, err
		}
	}
	for _, warning := range form.Warnings {
		if err := r.info(ctx, r.theme.ErrorPrefix+warning); err != nil {
			return nil, err
		}
	}

	controls := form.Rendered()
	values := make(validation.Values, len(controls))
	for _, control := range controls {
		for _, message := range opts.FieldErrors(control.FieldID()) {
			if err := r.info(ctx, r.theme.ErrorPrefix+message); err != nil {
				return nil, err
			}
		}
		value, err := r.promptControl(ctx, control, opts.Value(control.FieldID()))
		if err != nil {
			return nil, err
		}
		values[control.FieldID()] = value
	}

	if r.confirm {
		ok, err := r.confirmAnswers(ctx, controls, values)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotConfirmed
		}
	}

	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(controls, values)
}

func (r *Renderer) promptControl(ctx context.Context, control directive.Directive, current string) (string, error) {
	field := fieldFor(control)
	check := r.validator.Func(field)

	for {
		var (
			value string
			err   error
		)
		switch c := control.(type) {
		case directive.Input:
			value, err = r.driver.Input(ctx, InputConfig{
				Message:   c.Heading(),
				Default:   current,
				Help:      c.Placeholder,
				Validator: check,
			})
		case directive.TextArea:
			value, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message:   c.Heading(),
				Default:   current,
				Help:      c.Placeholder,
				Validator: check,
			})
		case directive.Select:
			value, err = r.promptChoice(ctx, c.Heading(), c.Choices, current)
		case directive.RadioGroup:
			choices := c.Choices
			if !c.Required {
				choices = append(append([]directive.Choice{}, choices...), directive.Choice{Label: skipLabel, Empty: true})
			}
			value, err = r.promptChoice(ctx, c.Heading(), choices, current)
		default:
			return "", nil
		}
		if err != nil {
			return "", err
		}

		result := r.validator.Validate(field, value)
		if result.Valid {
			return value, nil
		}
		if err := r.info(ctx, r.theme.ErrorPrefix+result.Message); err != nil {
			return "", err
		}
		current = value
	}
}

func (r *Renderer) promptChoice(ctx context.Context, message string, choices []directive.Choice, current string) (string, error) {
	labels := make([]string, 0, len(choices))
	defaultIdx := -1
	for idx, choice := range choices {
		labels = append(labels, choice.Label)
		if choice.Value == current && defaultIdx < 0 {
			defaultIdx = idx
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(choices) {
		return "", fmt.Errorf("tui: selection %d out of range for %q", idx, message)
	}
	return choices[idx].Value, nil
}

func (r *Renderer) confirmAnswers(ctx context.Context, controls []directive.Directive, values validation.Values) (bool, error) {
	if err := r.info(ctx, prettyPrint(controls, values)); err != nil {
		return false, err
	}
	return r.driver.Confirm(ctx, ConfirmConfig{
		Message: "Submit these answers?",
		Default: true,
	})
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	return r.driver.Info(ctx, msg)
}

func (r *Renderer) serialize(controls []directive.Directive, values validation.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for _, control := range controls {
			form.Set(control.FieldID(), values.Get(control.FieldID()))
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(controls, values)), nil
	default:
		out, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return out, nil
	}
}

func prettyPrint(controls []directive.Directive, values validation.Values) string {
	var b strings.Builder
	for _, control := range controls {
		base := directive.BaseOf(control)
		value := values.Get(base.ID)
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "%s: %s\n", base.Label, value)
	}
	return b.String()
}

// fieldFor rebuilds the schema field a directive was resolved from, enough
// for the validation engine to check answers.
func fieldFor(control directive.Directive) schema.Field {
	base := directive.BaseOf(control)
	field := schema.Field{ID: base.ID, Label: base.Label, Required: base.Required}

	withRule := func(pattern, message string) {
		if pattern != "" {
			field.Validation = &schema.Validation{Pattern: pattern, Message: message}
		}
	}

	switch c := control.(type) {
	case directive.Input:
		field.Type = schema.KindText
		if c.Type == directive.InputEmail {
			field.Type = schema.KindEmail
		}
		field.Placeholder = c.Placeholder
		withRule(c.Pattern, c.PatternMessage)
	case directive.TextArea:
		field.Type = schema.KindTextArea
		field.Placeholder = c.Placeholder
		withRule(c.Pattern, c.PatternMessage)
	case directive.Select:
		field.Type = schema.KindSelect
		field.Options = optionsFrom(c.Choices)
	case directive.RadioGroup:
		field.Type = schema.KindRadio
		field.Options = optionsFrom(c.Choices)
	}
	return field
}

func optionsFrom(choices []directive.Choice) []schema.Option {
	out := make([]schema.Option, 0, len(choices))
	for _, choice := range choices {
		if choice.Empty {
			continue
		}
		out = append(out, schema.Option{Value: choice.Value, Label: choice.Label})
	}
	return out
}
