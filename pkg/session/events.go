package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formschema/pkg/validation"
)

// Event is an input to Reduce. The set is closed.
type Event interface {
	event()
}

// TextChanged replaces the editor buffer. Empty text is ignored.
type TextChanged struct {
	Text string
}

// ValueChanged records the user's input for one field.
type ValueChanged struct {
	FieldID string
	Value   string
}

// PreviewRequested validates every field and opens the preview when all pass.
type PreviewRequested struct{}

// FormPosted records a whole form submission and then requests the preview
// in a single step. Rendered fields absent from Values count as empty.
type FormPosted struct {
	Values validation.Values
}

// PreviewCancelled closes the preview and returns to editing.
type PreviewCancelled struct{}

// SubmitConfirmed confirms the open preview. The Coordinator fills ID and
// At when they are zero.
type SubmitConfirmed struct {
	ID uuid.UUID
	At time.Time
}

// DarkThemeToggled is the dark-theme button.
type DarkThemeToggled struct{}

// LightThemeSelected is the light-theme button.
type LightThemeSelected struct{}

// SampleStaged stores fetched sample text without applying it.
type SampleStaged struct {
	Text string
}

// SampleLoaded copies the staged sample into the editor buffer.
type SampleLoaded struct{}

func (TextChanged) event()        {}
func (ValueChanged) event()       {}
func (PreviewRequested) event()   {}
func (FormPosted) event()         {}
func (PreviewCancelled) event()   {}
func (SubmitConfirmed) event()    {}
func (DarkThemeToggled) event()   {}
func (LightThemeSelected) event() {}
func (SampleStaged) event()       {}
func (SampleLoaded) event()       {}
