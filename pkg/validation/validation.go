// Package validation checks user-entered values against the rules a form
// schema declares for each field: required-ness, choice membership for
// select/radio fields, and the optional regular expression pattern.
//
// Validation is side-effect free. ValidateForm walks every field in schema
// order and never stops at the first failure so callers can mark all invalid
// controls at once.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/goliatone/go-formschema/pkg/schema"
)

// RequiredMessage is reported when a required field is left empty.
const RequiredMessage = "This field is required."

// Result is the outcome of validating one value.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Valid returns a passing result.
func Valid() Result {
	return Result{Valid: true}
}

// Invalid returns a failing result carrying message.
func Invalid(message string) Result {
	return Result{Valid: false, Message: message}
}

// Values maps field ids to the text entered by the user. A missing key is
// equivalent to the empty string.
type Values map[string]string

// Get returns the value for id, or "" when unset.
func (v Values) Get(id string) string {
	if v == nil {
		return ""
	}
	return v[id]
}

// Clone returns an independent copy of the map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Validator validates field values, caching compiled patterns.
type Validator struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

// New constructs an empty Validator.
func New() *Validator {
	return &Validator{patterns: make(map[string]*regexp.Regexp)}
}

var defaultValidator = New()

// Validate checks value against field using a shared Validator.
func Validate(field schema.Field, value string) Result {
	return defaultValidator.Validate(field, value)
}

// ValidateForm validates every field of form using a shared Validator.
func ValidateForm(form schema.FormSchema, values Values) Report {
	return defaultValidator.ValidateForm(form, values)
}

// Validate checks a single value. Emptiness is an exact zero-length match;
// values are not trimmed. An empty optional value skips the pattern check,
// mirroring how browsers treat the pattern attribute.
func (v *Validator) Validate(field schema.Field, value string) Result {
	if value == "" {
		if field.Required {
			return Invalid(RequiredMessage)
		}
		return Valid()
	}

	if field.Type.HasOptions() && !field.HasOption(value) {
		return Invalid(fmt.Sprintf("%q is not one of the available options.", value))
	}

	if field.Validation != nil && field.Validation.Pattern != "" {
		re, err := v.compile(field.Validation.Pattern)
		if err != nil {
			return Invalid(fmt.Sprintf("invalid validation pattern: %v", err))
		}
		if !re.MatchString(value) {
			return Invalid(field.Validation.Message)
		}
	}

	return Valid()
}

// ValidateForm validates every supported field in schema order.
func (v *Validator) ValidateForm(form schema.FormSchema, values Values) Report {
	report := Report{Results: make([]FieldResult, 0, len(form.Fields))}
	for _, field := range form.Fields {
		if !field.Type.Known() {
			// Unsupported kinds render no control, so nothing can be entered.
			continue
		}
		report.Results = append(report.Results, FieldResult{
			FieldID: field.ID,
			Result:  v.Validate(field, values.Get(field.ID)),
		})
	}
	return report
}

// Func adapts Validate to the func(string) error shape prompt libraries use.
func (v *Validator) Func(field schema.Field) func(string) error {
	return func(value string) error {
		if result := v.Validate(field, value); !result.Valid {
			return errors.New(result.Message)
		}
		return nil
	}
}

func (v *Validator) compile(pattern string) (*regexp.Regexp, error) {
	v.mu.RLock()
	re, ok := v.patterns[pattern]
	v.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.patterns[pattern] = re
	v.mu.Unlock()
	return re, nil
}
