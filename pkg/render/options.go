package render

import (
	"github.com/goliatone/go-formschema/pkg/theme"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// RenderOptions carry per-request state renderers need on top of the form
// itself.
type RenderOptions struct {
	// Values pre-populates controls, keyed by field id.
	Values validation.Values
	// Errors holds inline messages keyed by field id, usually produced by
	// FieldErrors.
	Errors map[string][]string
	// FormErrors are shown above the form (schema problems, submit failures).
	FormErrors []string
	// Theme is the resolved colour preset. The zero value renders unstyled.
	Theme theme.Config
	// Action and Method set the form element attributes. Method defaults to
	// POST.
	Action string
	Method string
}

// Value returns the current value for id, or "".
func (o RenderOptions) Value(id string) string {
	return o.Values.Get(id)
}

// FieldErrors returns the messages attached to id.
func (o RenderOptions) FieldErrors(id string) []string {
	if o.Errors == nil {
		return nil
	}
	return o.Errors[id]
}
