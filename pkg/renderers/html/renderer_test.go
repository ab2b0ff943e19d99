package html_test

import (
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/render"
	"github.com/goliatone/go-formschema/pkg/renderers/html"
	"github.com/goliatone/go-formschema/pkg/schema"
	"github.com/goliatone/go-formschema/pkg/testsupport"
	"github.com/goliatone/go-formschema/pkg/theme"
	"github.com/goliatone/go-formschema/pkg/validation"
)

func TestRenderer_RendersEveryControlKind(t *testing.T) {
	_, form := testsupport.ContactForm(t)
	output := renderForm(t, form, render.RenderOptions{})

	for _, fragment := range []string{
		`<h2 class="fs-title">Contact</h2>`,
		`<label for="fs-name">Name*</label>`,
		`<input type="text" id="fs-name" name="name" value="" placeholder="Jane Doe" required>`,
		`<input type="email" id="fs-email" name="email" value=""`,
		`title="Enter a valid email address."`,
		`<select id="fs-industry" name="industry" required>`,
		`<option value="" selected>Select an option</option>`,
		`<option value="tech">Technology</option>`,
		`<legend>Timeline</legend>`,
		`name="timeline" value="asap"`,
		`<textarea id="fs-comments" name="comments" placeholder="Anything else?"></textarea>`,
		`method="POST"`,
	} {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}

	if idx := strings.Index(output, `data-field="name"`); idx < 0 || idx > strings.Index(output, `data-field="comments"`) {
		t.Fatalf("controls not rendered in schema order")
	}
}

func TestRenderer_ValuesAndErrors(t *testing.T) {
	schemaDef, form := testsupport.ContactForm(t)
	values := validation.Values{"name": "Ada", "industry": "health", "timeline": "later", "email": "bad"}
	report := validation.ValidateForm(schemaDef, values)

	output := renderForm(t, form, render.RenderOptions{
		Values:     values,
		Errors:     render.FieldErrors(report),
		FormErrors: []string{"Please fix the highlighted fields", "Please fix the highlighted fields"},
		Action:     "/preview",
	})

	for _, fragment := range []string{
		`value="Ada"`,
		`<option value="health" selected>Healthcare</option>`,
		`value="later" checked`,
		`<p class="fs-error" role="alert">Enter a valid email address.</p>`,
		`fs-field-invalid" data-field="email"`,
		`action="/preview"`,
		`<li>Please fix the highlighted fields</li>`,
	} {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
	if strings.Count(output, "Please fix the highlighted fields") != 1 {
		t.Fatalf("expected form errors to be deduplicated")
	}
	if strings.Contains(output, `<option value="" selected>`) {
		t.Fatalf("empty choice should not be selected when a value is set")
	}
}

func TestRenderer_SkipsUnsupportedAndSanitisesDescription(t *testing.T) {
	form := directive.ResolveForm(schema.FormSchema{
		Title:       "Survey",
		Description: `Hello <strong>there</strong><script>alert(1)</script>`,
		Fields: []schema.Field{
			{ID: "when", Type: schema.Kind("date"), Label: "When"},
			{ID: "name", Type: schema.KindText, Label: "Name"},
		},
	})

	output := renderForm(t, form, render.RenderOptions{})
	if strings.Contains(output, `data-field="when"`) {
		t.Fatalf("unsupported field should not render")
	}
	if !strings.Contains(output, "Hello <strong>there</strong>") {
		t.Fatalf("expected inline formatting to survive\n%s", output)
	}
	if strings.Contains(output, "<script>") {
		t.Fatalf("script tag should be stripped\n%s", output)
	}
}

func TestRenderer_EscapesSchemaText(t *testing.T) {
	form := directive.ResolveForm(schema.FormSchema{
		Title:  "<b>Title</b>",
		Fields: []schema.Field{{ID: "x", Type: schema.KindText, Label: "<i>Label</i>"}},
	})

	output := renderForm(t, form, render.RenderOptions{})
	if strings.Contains(output, "<b>Title</b>") || strings.Contains(output, "<i>Label</i>") {
		t.Fatalf("schema text must be escaped\n%s", output)
	}
}

func TestRenderer_PageWithThemeAndPreview(t *testing.T) {
	_, form := testsupport.ContactForm(t)
	selector, err := theme.NewSelector()
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	cfg, err := selector.SelectPreset(theme.Dark)
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	renderer, err := html.New(html.WithPageTitle("Builder"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.RenderPage(testsupport.Context(), html.Page{
		EditorText:   testsupport.ContactSchema,
		Form:         &form,
		Options:      render.RenderOptions{Theme: cfg, Action: "/preview"},
		SchemaErrors: []string{"fields[0]: missing required key \"id\""},
		SampleStaged: true,
		Preview:      []html.PreviewRow{{Label: "Name", Value: "Ada"}, {Label: "Comments"}},
		Receipt:      &html.Receipt{ID: "abc", SubmittedAt: "now"},
	})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	output := string(out)

	for _, fragment := range []string{
		`<title>Builder</title>`,
		`data-theme="dark"`,
		`data-editor-theme="vs-dark"`,
		`--background: #111827;`,
		`>High Contrast</button>`,
		`>Light Theme</button>`,
		`>Load JSON to Editor</button>`,
		`<dt>Name</dt><dd>Ada</dd>`,
		`<dt>Comments</dt><dd>-</dd>`,
		`Submitted abc at now`,
		`<form class="fs-form"`,
		`missing required key &quot;id&quot;`,
	} {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected page to contain %q", fragment)
		}
	}
}

func TestRenderer_PageWithoutSchema(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.RenderPage(testsupport.Context(), html.Page{})
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	output := string(out)
	if !strings.Contains(output, "Paste a form schema") {
		t.Fatalf("expected empty state")
	}
	if strings.Contains(output, "Light Theme") || !strings.Contains(output, ">Dark Theme</button>") {
		t.Fatalf("light preset should only offer the dark button")
	}
	if strings.Contains(output, "Load JSON to Editor") || strings.Contains(output, `role="dialog"`) {
		t.Fatalf("unexpected staged sample or preview")
	}
}

func TestRenderer_WithTemplateRenderer(t *testing.T) {
	stub := &stubTemplateRenderer{output: "custom-output"}
	renderer, err := html.New(html.WithTemplateRenderer(stub))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), directive.Form{Title: "T"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "custom-output" || stub.lastName != html.FormTemplate {
		t.Fatalf("stub not used: %q %q", out, stub.lastName)
	}
	if renderer.Name() != "html" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected renderer metadata")
	}
}

func renderForm(t *testing.T, form directive.Form, options render.RenderOptions) string {
	t.Helper()

	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), form, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

type stubTemplateRenderer struct {
	output   string
	lastName string
}

func (s *stubTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return s.RenderTemplate(name, data, out...)
}

func (s *stubTemplateRenderer) RenderTemplate(name string, _ any, _ ...io.Writer) (string, error) {
	s.lastName = name
	return s.output, nil
}

func (s *stubTemplateRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return s.output, nil
}

func (s *stubTemplateRenderer) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (s *stubTemplateRenderer) GlobalContext(any) error {
	return nil
}
