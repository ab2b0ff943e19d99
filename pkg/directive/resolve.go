package directive

import (
	"fmt"

	"github.com/goliatone/go-formschema/pkg/schema"
)

// Form is the resolved view of a whole schema.
type Form struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Controls    []Directive `json:"controls"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// Rendered returns the controls that produce output, skipping Unsupported.
func (f Form) Rendered() []Directive {
	out := make([]Directive, 0, len(f.Controls))
	for _, control := range f.Controls {
		if _, skip := control.(Unsupported); skip {
			continue
		}
		out = append(out, control)
	}
	return out
}

// Resolve maps a field onto its directive. It never fails: unknown kinds
// resolve to Unsupported.
func Resolve(field schema.Field) Directive {
	base := Base{ID: field.ID, Label: field.Label, Required: field.Required}

	switch field.Type {
	case schema.KindText:
		return newInput(base, InputText, field)
	case schema.KindEmail:
		return newInput(base, InputEmail, field)
	case schema.KindTextArea:
		pattern, message := rule(field)
		return TextArea{
			Base:           base,
			Placeholder:    field.Placeholder,
			Pattern:        pattern,
			PatternMessage: message,
		}
	case schema.KindSelect:
		choices := make([]Choice, 0, len(field.Options)+1)
		choices = append(choices, Choice{Value: "", Label: EmptyChoiceLabel, Empty: true})
		choices = append(choices, choicesFrom(field.Options)...)
		return Select{Base: base, Choices: choices}
	case schema.KindRadio:
		return RadioGroup{Base: base, Name: field.ID, Choices: choicesFrom(field.Options)}
	default:
		return Unsupported{
			Base:    base,
			Type:    field.Type,
			Warning: fmt.Sprintf("field %q has unsupported type %q and was not rendered", field.ID, field.Type),
		}
	}
}

// ResolveForm resolves every field in schema order and gathers warnings for
// the ones that will not render.
func ResolveForm(form schema.FormSchema) Form {
	out := Form{
		Title:       form.Title,
		Description: form.Description,
		Controls:    make([]Directive, 0, len(form.Fields)),
	}
	for _, field := range form.Fields {
		d := Resolve(field)
		if unsupported, ok := d.(Unsupported); ok {
			out.Warnings = append(out.Warnings, unsupported.Warning)
		}
		out.Controls = append(out.Controls, d)
	}
	return out
}

func newInput(base Base, kind InputType, field schema.Field) Input {
	pattern, message := rule(field)
	return Input{
		Base:           base,
		Type:           kind,
		Placeholder:    field.Placeholder,
		Pattern:        pattern,
		PatternMessage: message,
	}
}

func rule(field schema.Field) (string, string) {
	if field.Validation == nil {
		return "", ""
	}
	return field.Validation.Pattern, field.Validation.Message
}

func choicesFrom(options []schema.Option) []Choice {
	out := make([]Choice, 0, len(options))
	for _, option := range options {
		out = append(out, Choice{Value: option.Value, Label: option.Label})
	}
	return out
}
