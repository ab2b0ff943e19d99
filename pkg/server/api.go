package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goliatone/go-formschema/internal/logger"
	"github.com/goliatone/go-formschema/pkg/contract"
	"github.com/goliatone/go-formschema/pkg/orchestrator"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/session"
	"github.com/goliatone/go-formschema/pkg/theme"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// SchemaErrorResponse lists every issue that kept a schema from parsing.
type SchemaErrorResponse struct {
	SchemaErrors []string `json:"schemaErrors"`
}

// ValidateResponse is the body of /api/validate.
type ValidateResponse struct {
	Valid    bool                     `json:"valid"`
	Results  []validation.FieldResult `json:"results"`
	Errors   map[string][]string      `json:"errors,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// FieldErrorResponse is returned with 422 when submitted values fail.
type FieldErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// valuesRequest is the body of /api/validate and /api/submit. Schema may be
// the schema object itself or a string holding its text.
type valuesRequest struct {
	Schema json.RawMessage   `json:"schema"`
	Values validation.Values `json:"values"`
}

// APIPreview renders the posted schema text as an HTML form fragment. The
// ?theme= query parameter picks the preset.
func (s *Server) APIPreview(w http.ResponseWriter, r *http.Request) {
	text, err := readBody(w, r)
	if err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.orchestrator.Generate(r.Context(), orchestrator.Request{
		Text:          text,
		Renderer:      html.Name,
		Theme:         theme.ParsePreset(r.URL.Query().Get("theme")),
		RenderOptions: render.RenderOptions{Method: http.MethodPost},
	})
	if err != nil {
		s.writeSchemaError(w, r, err)
		return
	}
	for _, warning := range result.Warnings() {
		w.Header().Add("X-Form-Warning", warning)
	}
	w.Header().Set("Content-Type", result.ContentType)
	_, _ = w.Write(result.Output)
}

// APIValidate validates the posted values against the posted schema and
// reports the outcome of every field.
func (s *Server) APIValidate(w http.ResponseWriter, r *http.Request) {
	form, values, ok := s.decodeValues(w, r)
	if !ok {
		return
	}
	report := s.validator.ValidateForm(form, values)
	JSON(w, http.StatusOK, ValidateResponse{
		Valid:    report.Valid(),
		Results:  report.Results,
		Errors:   report.Errors(),
		Warnings: warningsOf(form),
	})
}

// APISubmit validates the posted values and issues a receipt when every
// field passes.
func (s *Server) APISubmit(w http.ResponseWriter, r *http.Request) {
	form, values, ok := s.decodeValues(w, r)
	if !ok {
		return
	}
	report := s.validator.ValidateForm(form, values)
	if !report.Valid() {
		JSON(w, http.StatusUnprocessableEntity, FieldErrorResponse{Errors: report.Errors()})
		return
	}

	receipt := session.Receipt{
		ID:          s.newID(),
		SubmittedAt: s.now().UTC(),
		Values:      make(validation.Values, len(form.Fields)),
	}
	for _, field := range form.Fields {
		if field.Type.Known() {
			receipt.Values[field.ID] = values.Get(field.ID)
		}
	}
	logger.Info(r.Context(), "api submission accepted", "id", receipt.ID.String())
	JSON(w, http.StatusCreated, receipt)
}

// APIContract returns the OpenAPI description of the posted schema's
// submission endpoint. ?format=yaml switches the encoding.
func (s *Server) APIContract(w http.ResponseWriter, r *http.Request) {
	format, err := contract.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	text, err := readBody(w, r)
	if err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	form, err := s.orchestrator.Parse(r.Context(), orchestrator.Request{Text: text})
	if err != nil {
		s.writeSchemaError(w, r, err)
		return
	}

	doc, err := contract.Build(r.Context(), form)
	if err != nil {
		logger.Error(r.Context(), "build contract", err)
		JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out, err := contract.Marshal(doc, format)
	if err != nil {
		logger.Error(r.Context(), "encode contract", err)
		JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	contentType := "application/json"
	if format == contract.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(out)
}

func (s *Server) decodeValues(w http.ResponseWriter, r *http.Request) (schema.FormSchema, validation.Values, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req valuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return schema.FormSchema{}, nil, false
	}
	text, err := schemaText(req.Schema)
	if err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return schema.FormSchema{}, nil, false
	}

	form, err := s.orchestrator.Parse(r.Context(), orchestrator.Request{Text: text})
	if err != nil {
		s.writeSchemaError(w, r, err)
		return schema.FormSchema{}, nil, false
	}
	if req.Values == nil {
		req.Values = validation.Values{}
	}
	return form, req.Values, true
}

func (s *Server) writeSchemaError(w http.ResponseWriter, r *http.Request, err error) {
	if list, ok := schema.AsErrorList(err); ok {
		JSON(w, http.StatusUnprocessableEntity, SchemaErrorResponse{SchemaErrors: list.Messages()})
		return
	}
	if errors.Is(err, orchestrator.ErrNoSchema) {
		JSON(w, http.StatusBadRequest, map[string]string{"error": "schema is required"})
		return
	}
	logger.Error(r.Context(), "api request failed", err)
	JSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// schemaText accepts either an embedded schema object or a JSON string.
func schemaText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", errors.New("schema is required")
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", fmt.Errorf("schema string: %w", err)
		}
		return text, nil
	}
	return string(trimmed), nil
}

func readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", errors.New("schema is required")
	}
	return string(data), nil
}

func warningsOf(form schema.FormSchema) []string {
	if len(form.Warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(form.Warnings))
	for _, issue := range form.Warnings {
		out = append(out, issue.String())
	}
	return out
}

// JSON writes payload with the given status code.
func JSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
