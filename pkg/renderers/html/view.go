package html

import (
	"strings"

	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/render"
)

const controlIDPrefix = "fs-"

// formView flattens a resolved form and its render options into the plain
// map the templates consume.
func formView(form directive.Form, options render.RenderOptions) map[string]any {
	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if method == "" {
		method = "POST"
	}

	controls := make([]map[string]any, 0, len(form.Controls))
	for _, control := range form.Rendered() {
		controls = append(controls, controlView(control, options))
	}

	return map[string]any{
		"title":       form.Title,
		"description": sanitizeDescription(form.Description),
		"method":      method,
		"action":      options.Action,
		"style":       options.Theme.StyleDeclarations(),
		"variant":     options.Theme.Variant,
		"form_errors": render.MergeFormErrors(nil, options.FormErrors...),
		"controls":    controls,
	}
}

func controlView(control directive.Directive, options render.RenderOptions) map[string]any {
	base := directive.BaseOf(control)
	value := options.Value(base.ID)

	view := map[string]any{
		"id":       base.ID,
		"dom_id":   controlIDPrefix + base.ID,
		"heading":  base.Heading(),
		"required": base.Required,
		"value":    value,
		"errors":   options.FieldErrors(base.ID),
	}

	switch c := control.(type) {
	case directive.Input:
		view["kind"] = "input"
		view["input_type"] = string(c.Type)
		view["placeholder"] = c.Placeholder
		view["pattern"] = c.Pattern
		view["pattern_message"] = c.PatternMessage
	case directive.TextArea:
		view["kind"] = "textarea"
		view["placeholder"] = c.Placeholder
		view["pattern"] = c.Pattern
		view["pattern_message"] = c.PatternMessage
	case directive.Select:
		view["kind"] = "select"
		view["choices"] = choiceViews(base.ID, c.Choices, value)
	case directive.RadioGroup:
		view["kind"] = "radio"
		view["name"] = c.Name
		view["choices"] = choiceViews(base.ID, c.Choices, value)
	}
	return view
}

func choiceViews(id string, choices []directive.Choice, value string) []map[string]any {
	out := make([]map[string]any, 0, len(choices))
	for _, choice := range choices {
		out = append(out, map[string]any{
			"value":    choice.Value,
			"label":    choice.Label,
			"empty":    choice.Empty,
			"dom_id":   controlIDPrefix + id + "-" + choice.Value,
			"selected": choice.Value == value,
		})
	}
	return out
}
