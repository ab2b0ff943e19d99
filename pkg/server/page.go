package server

import (
	"net/http"
	"time"

	"github.com/goliatone/go-formschema/internal/logger"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/session"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// Form field carrying the editor buffer on POST /editor.
const editorField = "schema"

// Page renders the editor page from the current session snapshot.
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := s.coordinator.Snapshot()

	cfg, err := s.selector.SelectPreset(state.Theme)
	if err != nil {
		logger.Error(ctx, "select theme", err)
		http.Error(w, "theme unavailable", http.StatusInternalServerError)
		return
	}

	page := html.Page{
		EditorText: state.Source,
		Options: render.RenderOptions{
			Values: state.Values,
			Errors: state.FieldErrors,
			Theme:  cfg,
			Action: "/preview",
			Method: http.MethodPost,
		},
		SchemaErrors: state.Errors,
		Warnings:     state.Warnings(),
		SampleStaged: state.HasStaged,
	}
	if form, ok := state.Form(); ok {
		page.Form = &form
	}
	if state.PreviewOpen() {
		page.Preview = make([]html.PreviewRow, 0, len(state.Preview))
		for _, row := range state.Preview {
			page.Preview = append(page.Preview, html.PreviewRow{Label: row.Label, Value: row.Value})
		}
	}
	if state.Phase == session.PhaseSubmitted && state.Receipt != nil {
		page.Receipt = &html.Receipt{
			ID:          state.Receipt.ID.String(),
			SubmittedAt: state.Receipt.SubmittedAt.Format(time.RFC3339),
		}
	}

	out, err := s.html.RenderPage(ctx, page)
	if err != nil {
		logger.Error(ctx, "render page", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.html.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out)
}

// EditorChanged replaces the editor buffer with the posted schema text.
func (s *Server) EditorChanged(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	state := s.coordinator.Dispatch(session.TextChanged{Text: r.PostForm.Get(editorField)})
	logger.Debug(r.Context(), "editor updated", "phase", state.Phase, "errors", len(state.Errors))
	s.backToPage(w, r)
}

// PreviewRequested records every posted field value and asks for the preview
// in one dispatch. Fields missing from the post (an unchecked radio group)
// count as empty.
func (s *Server) PreviewRequested(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	values := make(validation.Values, len(r.PostForm))
	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}
	state := s.coordinator.Dispatch(session.FormPosted{Values: values})
	logger.Debug(r.Context(), "preview requested", "phase", state.Phase, "invalid", len(state.FieldErrors))
	s.backToPage(w, r)
}

// PreviewCancelled closes the preview.
func (s *Server) PreviewCancelled(w http.ResponseWriter, r *http.Request) {
	s.coordinator.Dispatch(session.PreviewCancelled{})
	s.backToPage(w, r)
}

// SubmitConfirmed confirms the open preview.
func (s *Server) SubmitConfirmed(w http.ResponseWriter, r *http.Request) {
	state := s.coordinator.Dispatch(session.SubmitConfirmed{})
	if state.Phase == session.PhaseSubmitted && state.Receipt != nil {
		logger.Info(r.Context(), "form submitted", "id", state.Receipt.ID.String())
	}
	s.backToPage(w, r)
}

// ToggleDark is the dark-theme button.
func (s *Server) ToggleDark(w http.ResponseWriter, r *http.Request) {
	s.coordinator.Dispatch(session.DarkThemeToggled{})
	s.backToPage(w, r)
}

// SelectLight is the light-theme button.
func (s *Server) SelectLight(w http.ResponseWriter, r *http.Request) {
	s.coordinator.Dispatch(session.LightThemeSelected{})
	s.backToPage(w, r)
}

// FetchSample stages the remote sample. Failures are logged by the
// coordinator and leave the page unchanged.
func (s *Server) FetchSample(w http.ResponseWriter, r *http.Request) {
	if err := s.coordinator.FetchSample(r.Context()); err != nil {
		logger.Debug(r.Context(), "sample not staged", "error", err)
	}
	s.backToPage(w, r)
}

// LoadSample copies the staged sample into the editor.
func (s *Server) LoadSample(w http.ResponseWriter, r *http.Request) {
	s.coordinator.Dispatch(session.SampleLoaded{})
	s.backToPage(w, r)
}

// Sample serves the sample schema document.
func (s *Server) Sample(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.sample)
}

// Healthz reports liveness.
func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		logger.Warn(r.Context(), "bad form post", "error", err)
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) backToPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
