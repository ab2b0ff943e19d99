package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/schema"
)

func TestValidate_RequiredWithoutPattern(t *testing.T) {
	field := schema.Field{ID: "name", Type: schema.KindText, Label: "Name", Required: true}

	if got := Validate(field, ""); got != Invalid(RequiredMessage) {
		t.Fatalf("empty value: want invalid, got %+v", got)
	}
	for _, value := range []string{"Alice", " ", "x"} {
		if got := Validate(field, value); !got.Valid {
			t.Fatalf("value %q: want valid, got %+v", value, got)
		}
	}
}

func TestValidate_Pattern(t *testing.T) {
	field := schema.Field{
		ID:         "code",
		Type:       schema.KindText,
		Label:      "Code",
		Validation: &schema.Validation{Pattern: "^[0-9]+$", Message: "digits only"},
	}

	if got := Validate(field, "abc"); got != Invalid("digits only") {
		t.Fatalf("abc: want Invalid(digits only), got %+v", got)
	}
	if got := Validate(field, "123"); got != Valid() {
		t.Fatalf("123: want Valid, got %+v", got)
	}
	if got := Validate(field, ""); got != Valid() {
		t.Fatalf("empty optional value should skip pattern, got %+v", got)
	}

	field.Required = true
	if got := Validate(field, ""); got != Invalid(RequiredMessage) {
		t.Fatalf("empty required value: want required message, got %+v", got)
	}
}

func TestValidate_NoRulesAcceptsAnything(t *testing.T) {
	field := schema.Field{ID: "comments", Type: schema.KindTextArea, Label: "Comments"}
	for _, value := range []string{"", "anything at all", "\n"} {
		if got := Validate(field, value); !got.Valid {
			t.Fatalf("value %q: want valid, got %+v", value, got)
		}
	}
}

func TestValidate_ChoiceMembership(t *testing.T) {
	field := schema.Field{
		ID:    "industry",
		Type:  schema.KindSelect,
		Label: "Industry",
		Options: []schema.Option{
			{Value: "tech", Label: "Technology"},
			{Value: "health", Label: "Healthcare"},
		},
	}

	if got := Validate(field, ""); !got.Valid {
		t.Fatalf("unselected optional choice should be valid, got %+v", got)
	}
	if got := Validate(field, "tech"); !got.Valid {
		t.Fatalf("declared option should be valid, got %+v", got)
	}
	if got := Validate(field, "Technology"); got.Valid {
		t.Fatalf("labels are not values; expected invalid")
	}

	field.Type = schema.KindRadio
	if got := Validate(field, "retail"); got.Valid {
		t.Fatalf("undeclared radio value should be invalid")
	}
}

func TestValidateForm_ReportsEveryFailureInOrder(t *testing.T) {
	form := schema.FormSchema{
		Title: "T",
		Fields: []schema.Field{
			{ID: "name", Type: schema.KindText, Label: "Name", Required: true},
			{ID: "age", Type: schema.KindText, Label: "Age", Validation: &schema.Validation{Pattern: "^[0-9]+$", Message: "digits only"}},
			{ID: "notes", Type: schema.KindTextArea, Label: "Notes"},
			{ID: "when", Type: schema.Kind("date"), Label: "When", Required: true},
			{ID: "email", Type: schema.KindEmail, Label: "Email", Required: true},
		},
	}

	report := ValidateForm(form, Values{"age": "ten"})
	if report.Valid() {
		t.Fatalf("expected invalid report")
	}

	want := []FieldResult{
		{FieldID: "name", Result: Invalid(RequiredMessage)},
		{FieldID: "age", Result: Invalid("digits only")},
		{FieldID: "email", Result: Invalid(RequiredMessage)},
	}
	if diff := cmp.Diff(want, report.Failures()); diff != "" {
		t.Fatalf("failures mismatch (-want +got):\n%s", diff)
	}

	wantErrors := map[string][]string{
		"name":  {RequiredMessage},
		"age":   {"digits only"},
		"email": {RequiredMessage},
	}
	if diff := cmp.Diff(wantErrors, report.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	if _, ok := report.Result("when"); ok {
		t.Fatalf("unsupported field should not be validated")
	}
}

func TestValidateForm_EndToEndSubmission(t *testing.T) {
	form := schema.FormSchema{
		Title:       "T",
		Description: "D",
		Fields:      []schema.Field{{ID: "name", Type: schema.KindText, Label: "Name", Required: true}},
	}

	if ValidateForm(form, Values{}).Valid() {
		t.Fatalf("empty submission should be rejected")
	}
	if !ValidateForm(form, Values{"name": "Alice"}).Valid() {
		t.Fatalf("submission with a name should be accepted")
	}
}

func TestValidator_FuncAndPatternCache(t *testing.T) {
	v := New()
	field := schema.Field{
		ID:         "zip",
		Type:       schema.KindText,
		Validation: &schema.Validation{Pattern: `^\d{5}$`, Message: "five digits"},
	}

	check := v.Func(field)
	if err := check("1234"); err == nil || err.Error() != "five digits" {
		t.Fatalf("expected five digits error, got %v", err)
	}
	if err := check("12345"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(v.patterns) != 1 {
		t.Fatalf("expected one cached pattern, got %d", len(v.patterns))
	}
}
