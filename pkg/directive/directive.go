// Package directive resolves schema fields into renderer-agnostic input
// descriptions. Renderers switch over the concrete Directive types; the set is
// closed by the unexported marker method.
package directive

import "github.com/goliatone/go-formschema/pkg/schema"

// EmptyChoiceLabel is the label of the synthetic leading option in selects.
const EmptyChoiceLabel = "Select an option"

// Directive describes how a single field should be presented.
type Directive interface {
	// FieldID returns the id of the field the directive was resolved from.
	FieldID() string
	directive()
}

// Base carries the properties every rendered control shares.
type Base struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// FieldID implements Directive.
func (b Base) FieldID() string { return b.ID }

// Heading returns the label with a trailing asterisk for required fields.
func (b Base) Heading() string {
	if b.Required {
		return b.Label + "*"
	}
	return b.Label
}

// InputType names the HTML-style input kind of a single-line control.
type InputType string

const (
	InputText  InputType = "text"
	InputEmail InputType = "email"
)

// Input is a single-line text control.
type Input struct {
	Base
	Type           InputType `json:"type"`
	Placeholder    string    `json:"placeholder,omitempty"`
	Pattern        string    `json:"pattern,omitempty"`
	PatternMessage string    `json:"patternMessage,omitempty"`
}

// TextArea is a multi-line text control.
type TextArea struct {
	Base
	Placeholder    string `json:"placeholder,omitempty"`
	Pattern        string `json:"pattern,omitempty"`
	PatternMessage string `json:"patternMessage,omitempty"`
}

// Choice is one selectable entry of a Select or RadioGroup.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
	// Empty marks the synthetic "nothing selected" entry.
	Empty bool `json:"empty,omitempty"`
}

// Select is a single-choice dropdown. Choices[0] is always the synthetic
// empty choice.
type Select struct {
	Base
	Choices []Choice `json:"choices"`
}

// RadioGroup is a set of mutually exclusive choices sharing Name.
type RadioGroup struct {
	Base
	Name    string   `json:"name"`
	Choices []Choice `json:"choices"`
}

// Unsupported stands in for fields whose kind the resolver does not know.
// Renderers emit nothing for it.
type Unsupported struct {
	Base
	Type    schema.Kind `json:"type"`
	Warning string      `json:"warning"`
}

func (Input) directive()       {}
func (TextArea) directive()    {}
func (Select) directive()      {}
func (RadioGroup) directive()  {}
func (Unsupported) directive() {}

// BaseOf returns the shared properties of any directive.
func BaseOf(d Directive) Base {
	switch v := d.(type) {
	case Input:
		return v.Base
	case TextArea:
		return v.Base
	case Select:
		return v.Base
	case RadioGroup:
		return v.Base
	case Unsupported:
		return v.Base
	default:
		return Base{ID: d.FieldID()}
	}
}
