package gotemplate_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formschema/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formschema/pkg/testsupport"
)

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if result != "Hello, Ada!" {
		t.Fatalf("unexpected result %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch: %q vs %q", written, result)
	}
}

func TestEngine_StructDataUsesJSONKeys(t *testing.T) {
	engine := newEngine(t)

	type field struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	data := struct {
		Fields []field `json:"fields"`
	}{Fields: []field{{ID: "name", Label: "Name"}, {ID: "email", Label: "Email"}}}

	result, err := engine.RenderString(`{% for f in fields %}[{{ f.id }}={{ f.label }}]{% endfor %}`, data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "[name=Name][email=Email]" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.Render("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("formschema_shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("formschema_shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	result, err := engine.Render(`{{ name|formschema_shout }}`, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "ADA!" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template source")
	}

	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tmpl":      {Data: []byte("Hello, {{ name }}!")},
		"use-global.tmpl": {Data: []byte("env={{ settings.env }}")},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
