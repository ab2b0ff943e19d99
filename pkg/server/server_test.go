package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-formschema/internal/logger"
	"github.com/goliatone/go-formschema/pkg/sample"
	"github.com/goliatone/go-formschema/pkg/session"
	"github.com/goliatone/go-formschema/pkg/testsupport"
	"github.com/goliatone/go-formschema/pkg/validation"
)

var (
	fixedID = uuid.MustParse("11111111-2222-3333-4444-555555555555")
	fixedAt = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
)

type stubFetcher struct {
	text string
	err  error
}

func (s stubFetcher) Fetch(context.Context) (string, error) {
	return s.text, s.err
}

func newTestServer(t *testing.T, options ...session.Option) *Server {
	t.Helper()

	options = append([]session.Option{
		session.WithClock(func() time.Time { return fixedAt }),
		session.WithIDGenerator(func() uuid.UUID { return fixedID }),
		session.WithLogger(logger.Discard()),
	}, options...)

	srv, err := New(
		WithCoordinator(session.NewCoordinator(options...)),
		WithLogger(logger.Discard()),
		WithClock(func() time.Time { return fixedAt }),
		WithIDGenerator(func() uuid.UUID { return fixedID }),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func post(t *testing.T, srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("POST %s: expected redirect to /, got %d %q", path, rec.Code, rec.Header().Get("Location"))
	}
	return rec
}

func page(t *testing.T, srv *Server) string {
	t.Helper()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: status %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	return rec.Body.String()
}

func apiCall(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func assertContains(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in body:\n%s", fragment, body)
		}
	}
}

func TestServer_HealthzAndSample(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("unexpected healthz response %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, sample.Path, nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected sample response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != string(sample.Default()) {
		t.Fatalf("sample body mismatch")
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/editor", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET /editor, got %d", rec.Code)
	}
}

func TestServer_EmptyPage(t *testing.T) {
	srv := newTestServer(t)
	assertContains(t, page(t, srv), "Paste a form schema to see the form.", `id="theme-dark"`)
}

func TestServer_EditPreviewSubmitFlow(t *testing.T) {
	srv := newTestServer(t)

	post(t, srv, "/editor", url.Values{editorField: {testsupport.ContactSchema}})
	body := page(t, srv)
	assertContains(t, body, `name="email"`, `action="/preview"`, `type="radio"`)

	// Missing required values keep the form open with inline errors.
	post(t, srv, "/preview", url.Values{"name": {"Ada"}})
	body = page(t, srv)
	assertContains(t, body, validation.RequiredMessage)
	if strings.Contains(body, "Review your submission") {
		t.Fatalf("preview must not open while fields are invalid")
	}
	if srv.Coordinator().Snapshot().Values.Get("name") != "Ada" {
		t.Fatalf("posted value was not recorded")
	}

	post(t, srv, "/preview", url.Values{
		"name":     {"Ada"},
		"email":    {"ada@example.com"},
		"industry": {"tech"},
	})
	body = page(t, srv)
	assertContains(t, body, "Review your submission", "ada@example.com", `id="preview-confirm"`)

	post(t, srv, "/preview/cancel", nil)
	if srv.Coordinator().Snapshot().PreviewOpen() {
		t.Fatalf("preview should be closed after cancel")
	}

	post(t, srv, "/preview", url.Values{
		"name":     {"Ada"},
		"email":    {"ada@example.com"},
		"industry": {"tech"},
	})
	post(t, srv, "/submit", nil)

	state := srv.Coordinator().Snapshot()
	if state.Phase != session.PhaseSubmitted || state.Receipt == nil {
		t.Fatalf("expected submitted state, got %s", state.Phase)
	}
	want := validation.Values{"name": "Ada", "email": "ada@example.com", "industry": "tech", "timeline": "", "comments": ""}
	if diff := cmp.Diff(want, state.Receipt.Values); diff != "" {
		t.Fatalf("receipt values mismatch (-want +got):\n%s", diff)
	}
	assertContains(t, page(t, srv), "Submitted "+fixedID.String(), "2024-05-06T07:08:09Z")
}

func TestServer_SchemaErrorsReplaceForm(t *testing.T) {
	srv := newTestServer(t, session.WithInitialText(testsupport.ContactSchema))

	post(t, srv, "/editor", url.Values{editorField: {`{"formTitle": "Broken"`}})
	body := page(t, srv)
	assertContains(t, body, `class="fs-errors"`, "Broken")
	if strings.Contains(body, `name="email"`) {
		t.Fatalf("form must not render while the schema is invalid")
	}

	post(t, srv, "/editor", url.Values{editorField: {testsupport.ContactSchema}})
	body = page(t, srv)
	assertContains(t, body, `name="email"`)
	if strings.Contains(body, `class="fs-errors"`) {
		t.Fatalf("errors should clear after a successful parse")
	}
}

func TestServer_ThemeButtons(t *testing.T) {
	srv := newTestServer(t)

	body := page(t, srv)
	if strings.Contains(body, `id="theme-light"`) {
		t.Fatalf("light button should be hidden in the light theme")
	}

	post(t, srv, "/theme/dark", nil)
	assertContains(t, page(t, srv), `data-theme="dark"`, "High Contrast", `id="theme-light"`)

	post(t, srv, "/theme/dark", nil)
	assertContains(t, page(t, srv), `data-theme="high-contrast"`, "Dark Theme")

	post(t, srv, "/theme/light", nil)
	assertContains(t, page(t, srv), `data-theme="light"`)
}

func TestServer_SampleStageAndLoad(t *testing.T) {
	srv := newTestServer(t,
		session.WithInitialText(testsupport.ContactSchema),
		session.WithFetcher(stubFetcher{text: string(sample.Default())}),
	)

	post(t, srv, "/sample/fetch", nil)
	body := page(t, srv)
	assertContains(t, body, `id="sample-load"`, `name="email"`)
	if strings.Contains(body, `name="companySize"`) {
		t.Fatalf("staged sample must not be applied before load")
	}

	post(t, srv, "/sample/load", nil)
	assertContains(t, page(t, srv), `name="companySize"`, "Project Inquiry")
}

func TestServer_SampleFetchFailureIsSwallowed(t *testing.T) {
	srv := newTestServer(t,
		session.WithInitialText(testsupport.ContactSchema),
		session.WithFetcher(stubFetcher{err: errors.New("offline")}),
	)
	before := srv.Coordinator().Snapshot()

	post(t, srv, "/sample/fetch", nil)

	after := srv.Coordinator().Snapshot()
	if after.HasStaged || after.Phase != before.Phase || len(after.Errors) != 0 {
		t.Fatalf("fetch failure changed state: %+v", after)
	}
}

func TestAPI_Preview(t *testing.T) {
	srv := newTestServer(t)

	rec := apiCall(t, srv, "/api/preview?theme=dark", testsupport.ContactSchema)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected preview response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	assertContains(t, rec.Body.String(), `name="industry"`, `data-theme="dark"`)

	rec = apiCall(t, srv, "/api/preview", `{"formTitle": 1}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var payload SchemaErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.SchemaErrors) < 2 {
		t.Fatalf("expected every schema error, got %v", payload.SchemaErrors)
	}

	rec = apiCall(t, srv, "/api/preview", "  ")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rec.Code)
	}
}

func TestAPI_PreviewWarnsAboutUnsupportedKinds(t *testing.T) {
	srv := newTestServer(t)

	rec := apiCall(t, srv, "/api/preview", `{"formTitle": "T", "formDescription": "", "fields": [
		{"id": "when", "type": "date", "label": "When"}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("X-Form-Warning"), `"when"`) {
		t.Fatalf("expected warning header, got %q", rec.Header().Get("X-Form-Warning"))
	}
}

func TestAPI_Validate(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(map[string]any{
		"schema": testsupport.ContactSchema,
		"values": map[string]string{"name": "Ada", "email": "nope", "industry": "retail"},
	})
	rec := apiCall(t, srv, "/api/validate", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var payload ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Valid {
		t.Fatalf("expected invalid report")
	}
	if len(payload.Results) != 5 {
		t.Fatalf("expected a result per field, got %d", len(payload.Results))
	}
	want := map[string][]string{
		"email":    {"Enter a valid email address."},
		"industry": {`"retail" is not one of the available options.`},
	}
	if diff := cmp.Diff(want, payload.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestAPI_ValidateAcceptsEmbeddedSchemaObject(t *testing.T) {
	srv := newTestServer(t)

	body := `{"schema": ` + testsupport.ContactSchema + `, "values": {"name": "Ada", "email": "a@b", "industry": "tech"}}`
	rec := apiCall(t, srv, "/api/validate", body)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"valid":true`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = apiCall(t, srv, "/api/validate", `{"values": {}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without schema, got %d", rec.Code)
	}
}

func TestAPI_Submit(t *testing.T) {
	srv := newTestServer(t)

	invalid, _ := json.Marshal(map[string]any{"schema": testsupport.ContactSchema, "values": map[string]string{}})
	rec := apiCall(t, srv, "/api/submit", string(invalid))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var failure FieldErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &failure); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, id := range []string{"name", "email", "industry"} {
		if diff := cmp.Diff([]string{validation.RequiredMessage}, failure.Errors[id]); diff != "" {
			t.Fatalf("%s errors mismatch (-want +got):\n%s", id, diff)
		}
	}

	valid, _ := json.Marshal(map[string]any{
		"schema": testsupport.ContactSchema,
		"values": map[string]string{"name": "Ada", "email": "a@b", "industry": "tech", "extra": "dropped"},
	})
	rec = apiCall(t, srv, "/api/submit", string(valid))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var receipt session.Receipt
	if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if receipt.ID != fixedID || !receipt.SubmittedAt.Equal(fixedAt) {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
	if _, ok := receipt.Values["extra"]; ok {
		t.Fatalf("unknown keys must not be echoed in the receipt")
	}
}

func TestAPI_Contract(t *testing.T) {
	srv := newTestServer(t)

	rec := apiCall(t, srv, "/api/contract", testsupport.ContactSchema)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	assertContains(t, rec.Body.String(), `"/submissions"`, `"x-form-field-type"`)

	rec = apiCall(t, srv, "/api/contract?format=yaml", testsupport.ContactSchema)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/yaml" {
		t.Fatalf("unexpected yaml response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	assertContains(t, rec.Body.String(), "openapi: 3.0.3")

	rec = apiCall(t, srv, "/api/contract?format=xml", testsupport.ContactSchema)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0", time.Second, time.Second)
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}

func TestServer_ServeStagesSampleOnceListening(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	fetcher, err := sample.NewFetcher("http://"+ln.Addr().String(), sample.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("fetcher: %v", err)
	}

	coordinator := session.NewCoordinator(
		session.WithFetcher(fetcher),
		session.WithLogger(logger.Discard()),
	)
	staged := make(chan session.State, 1)
	unsubscribe := coordinator.Subscribe(func(state session.State) {
		if !state.HasStaged {
			return
		}
		select {
		case staged <- state:
		default:
		}
	})
	defer unsubscribe()

	srv, err := New(
		WithCoordinator(coordinator),
		WithLogger(logger.Discard()),
		WithSampleStaging(),
	)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln, time.Second, time.Second)
	}()

	select {
	case state := <-staged:
		if !strings.Contains(state.Staged, "Project Inquiry") {
			t.Fatalf("unexpected staged text %q", state.Staged)
		}
		if state.Source != "" || state.Phase != session.PhaseEmpty {
			t.Fatalf("staging must not load the sample into the editor")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("sample was not staged")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("serve: %v", err)
	}
}
