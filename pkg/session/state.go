// Package session holds the editor/form state machine. State snapshots are
// immutable values produced by Reduce; the Coordinator owns the only mutable
// copy and hands read-only snapshots to views.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/theme"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// Phase is the coarse position of a session in its lifecycle.
type Phase string

const (
	// PhaseEmpty means no schema has ever parsed.
	PhaseEmpty Phase = "empty"
	// PhaseSchemaLoaded means a fresh schema is shown with no values entered.
	PhaseSchemaLoaded Phase = "schema-loaded"
	// PhaseEditing means at least one value was entered since the schema
	// loaded or the last preview closed.
	PhaseEditing Phase = "editing"
	// PhaseReadyForPreview means every field validated and the preview is
	// waiting for confirmation.
	PhaseReadyForPreview Phase = "ready-for-preview"
	// PhaseSubmitted means the last preview was confirmed.
	PhaseSubmitted Phase = "submitted"
	// PhaseInvalid means the editor text does not parse; Errors explains why.
	PhaseInvalid Phase = "invalid"
)

// PreviewRow is one line of the submission preview.
type PreviewRow struct {
	FieldID string `json:"fieldId"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

// Receipt records a confirmed submission.
type Receipt struct {
	ID          uuid.UUID         `json:"id"`
	SubmittedAt time.Time         `json:"submittedAt"`
	Values      validation.Values `json:"values"`
}

// State is a snapshot of a session. Treat it as read-only; Reduce never
// mutates its input.
type State struct {
	Phase  Phase  `json:"phase"`
	Source string `json:"source"`
	// Schema is the last schema that parsed. It survives later parse
	// failures so the form can come back once the text is fixed.
	Schema      *schema.FormSchema  `json:"schema,omitempty"`
	Errors      []string            `json:"errors,omitempty"`
	Values      validation.Values   `json:"values"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	Theme       theme.Preset        `json:"theme"`
	Staged      string              `json:"staged,omitempty"`
	HasStaged   bool                `json:"hasStaged"`
	Preview     []PreviewRow        `json:"preview,omitempty"`
	Receipt     *Receipt            `json:"receipt,omitempty"`
	// StrictKinds makes unsupported field types parse errors.
	StrictKinds bool `json:"strictKinds"`
}

// Initial returns the state of a new session.
func Initial() State {
	return State{
		Phase:  PhaseEmpty,
		Values: validation.Values{},
		Theme:  theme.Light,
	}
}

// ShowsForm reports whether the form (rather than the error list) should be
// presented.
func (s State) ShowsForm() bool {
	return s.Schema != nil && len(s.Errors) == 0
}

// Form resolves the current schema into directives. ok is false when no
// form should be shown.
func (s State) Form() (directive.Form, bool) {
	if !s.ShowsForm() {
		return directive.Form{}, false
	}
	return directive.ResolveForm(*s.Schema), true
}

// Warnings returns the non-fatal findings of the current schema.
func (s State) Warnings() []string {
	if s.Schema == nil {
		return nil
	}
	out := make([]string, 0, len(s.Schema.Warnings))
	for _, issue := range s.Schema.Warnings {
		out = append(out, issue.String())
	}
	return out
}

// PreviewOpen reports whether the submission preview is showing.
func (s State) PreviewOpen() bool {
	return s.Phase == PhaseReadyForPreview
}

func (s State) clone() State {
	out := s
	out.Values = s.Values.Clone()
	if s.Errors != nil {
		out.Errors = append([]string(nil), s.Errors...)
	}
	if s.FieldErrors != nil {
		out.FieldErrors = make(map[string][]string, len(s.FieldErrors))
		for id, messages := range s.FieldErrors {
			out.FieldErrors[id] = append([]string(nil), messages...)
		}
	}
	if s.Preview != nil {
		out.Preview = append([]PreviewRow(nil), s.Preview...)
	}
	return out
}
