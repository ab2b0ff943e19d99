package session

import (
	"reflect"

	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/theme"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// Reduce returns the state that follows s after e. It never mutates s and
// returns s unchanged for events that do not apply in the current phase.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case TextChanged:
		return applyText(s, ev.Text)
	case ValueChanged:
		return applyValue(s, ev)
	case PreviewRequested:
		return openPreview(s)
	case FormPosted:
		return openPreview(applyPost(s, ev.Values))
	case PreviewCancelled:
		if s.Phase != PhaseReadyForPreview {
			return s
		}
		next := s.clone()
		next.Phase = PhaseEditing
		next.Preview = nil
		return next
	case SubmitConfirmed:
		return confirm(s, ev)
	case DarkThemeToggled:
		next := s.clone()
		next.Theme = theme.ToggleDark(s.Theme)
		return next
	case LightThemeSelected:
		next := s.clone()
		next.Theme = theme.SelectLight(s.Theme)
		return next
	case SampleStaged:
		next := s.clone()
		next.Staged = ev.Text
		next.HasStaged = true
		return next
	case SampleLoaded:
		if !s.HasStaged {
			return s
		}
		return applyText(s, s.Staged)
	default:
		return s
	}
}

func applyText(s State, text string) State {
	if text == "" {
		return s
	}

	next := s.clone()
	next.Source = text

	var options []schema.ParseOption
	if s.StrictKinds {
		options = append(options, schema.WithStrictKinds())
	}
	parsed, err := schema.ParseString(text, options...)
	if err != nil {
		messages := []string{err.Error()}
		if list, ok := schema.AsErrorList(err); ok {
			messages = list.Messages()
		}
		next.Errors = render.MergeFormErrors(s.Errors, messages...)
		next.Phase = PhaseInvalid
		next.Preview = nil
		return next
	}

	next.Errors = nil
	if s.Schema != nil && reflect.DeepEqual(*s.Schema, parsed) {
		// Same schema (whitespace or formatting edit): keep entered values.
		if s.Phase == PhaseInvalid {
			next.Phase = settledPhase(next)
		}
		return next
	}

	next.Schema = &parsed
	next.Values = validation.Values{}
	next.FieldErrors = nil
	next.Preview = nil
	next.Receipt = nil
	next.Phase = PhaseSchemaLoaded
	return next
}

// settledPhase is the phase a valid schema returns to after an invalid edit.
func settledPhase(s State) Phase {
	switch {
	case s.Receipt != nil:
		return PhaseSubmitted
	case len(s.Values) > 0:
		return PhaseEditing
	default:
		return PhaseSchemaLoaded
	}
}

func applyValue(s State, ev ValueChanged) State {
	if !s.ShowsForm() {
		return s
	}
	field, ok := s.Schema.Field(ev.FieldID)
	if !ok || !field.Type.Known() {
		return s
	}

	next := s.clone()
	next.Values[ev.FieldID] = ev.Value
	next.Phase = PhaseEditing
	next.Preview = nil
	next.Receipt = nil

	result := validation.Validate(field, ev.Value)
	switch {
	case result.Valid:
		delete(next.FieldErrors, ev.FieldID)
		if len(next.FieldErrors) == 0 {
			next.FieldErrors = nil
		}
	default:
		if next.FieldErrors == nil {
			next.FieldErrors = make(map[string][]string)
		}
		next.FieldErrors[ev.FieldID] = []string{result.Message}
	}
	return next
}

func applyPost(s State, values validation.Values) State {
	if !s.ShowsForm() {
		return s
	}
	for _, field := range s.Schema.Fields {
		if !field.Type.Known() {
			continue
		}
		s = applyValue(s, ValueChanged{FieldID: field.ID, Value: values.Get(field.ID)})
	}
	return s
}

func openPreview(s State) State {
	if !s.ShowsForm() || s.Phase == PhaseReadyForPreview {
		return s
	}

	next := s.clone()
	report := validation.ValidateForm(*s.Schema, s.Values)
	if !report.Valid() {
		next.FieldErrors = report.Errors()
		next.Phase = PhaseEditing
		next.Preview = nil
		return next
	}

	next.FieldErrors = nil
	next.Preview = make([]PreviewRow, 0, len(s.Schema.Fields))
	for _, field := range s.Schema.Fields {
		if !field.Type.Known() {
			continue
		}
		next.Preview = append(next.Preview, PreviewRow{
			FieldID: field.ID,
			Label:   field.Label,
			Value:   s.Values.Get(field.ID),
		})
	}
	next.Phase = PhaseReadyForPreview
	return next
}

func confirm(s State, ev SubmitConfirmed) State {
	if s.Phase != PhaseReadyForPreview {
		return s
	}
	next := s.clone()
	next.Receipt = &Receipt{
		ID:          ev.ID,
		SubmittedAt: ev.At,
		Values:      submittedValues(*s.Schema, s.Values),
	}
	next.Preview = nil
	next.Phase = PhaseSubmitted
	return next
}

// submittedValues keeps only the rendered fields, with "" for untouched ones.
func submittedValues(form schema.FormSchema, values validation.Values) validation.Values {
	out := make(validation.Values, len(form.Fields))
	for _, field := range form.Fields {
		if !field.Type.Known() {
			continue
		}
		out[field.ID] = values.Get(field.ID)
	}
	return out
}
