package schema

// Kind enumerates the field types a form schema may declare.
type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindTextArea Kind = "textarea"
	KindSelect   Kind = "select"
	KindRadio    Kind = "radio"
)

// Kinds lists the supported field kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindText, KindEmail, KindTextArea, KindSelect, KindRadio}
}

// Known reports whether the kind belongs to the supported set.
func (k Kind) Known() bool {
	switch k {
	case KindText, KindEmail, KindTextArea, KindSelect, KindRadio:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the kind renders a choice list.
func (k Kind) HasOptions() bool {
	return k == KindSelect || k == KindRadio
}

// TextLike reports whether the kind accepts free text (and a placeholder).
func (k Kind) TextLike() bool {
	return k == KindText || k == KindEmail || k == KindTextArea
}

// FormSchema is the validated representation of a form document. Field order
// is render order.
type FormSchema struct {
	Title       string  `json:"formTitle"`
	Description string  `json:"formDescription"`
	Fields      []Field `json:"fields"`

	// Warnings collects non-fatal findings (unsupported field kinds). They
	// are recomputed on every parse and never serialised.
	Warnings []Issue `json:"-"`
}

// Field declares one input of the form.
type Field struct {
	ID          string      `json:"id"`
	Type        Kind        `json:"type"`
	Label       string      `json:"label"`
	Required    bool        `json:"required,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Options     []Option    `json:"options,omitempty"`
	Validation  *Validation `json:"validation,omitempty"`
}

// Option is a value/label pair offered by select and radio fields.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Validation holds a regular expression source and the message shown when a
// value does not match it.
type Validation struct {
	Pattern string `json:"pattern"`
	Message string `json:"message"`
}

// Field returns the field declared with the given id.
func (s FormSchema) Field(id string) (Field, bool) {
	for _, field := range s.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// FieldIDs returns the declared ids in render order.
func (s FormSchema) FieldIDs() []string {
	ids := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		ids = append(ids, field.ID)
	}
	return ids
}

// HasOption reports whether value matches one of the declared option values.
func (f Field) HasOption(value string) bool {
	for _, option := range f.Options {
		if option.Value == value {
			return true
		}
	}
	return false
}

// Pattern returns the validation pattern, or "" when none is declared.
func (f Field) Pattern() string {
	if f.Validation == nil {
		return ""
	}
	return f.Validation.Pattern
}
