package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/directive"
	"github.com/goliatone/go-formschema/pkg/render"
)

type stubRenderer struct {
	name string
	err  error
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }

func (s stubRenderer) Render(_ context.Context, form directive.Form, _ render.RenderOptions) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.name + ":" + form.Title), nil
}

func TestRegistry_RegisterAndDefault(t *testing.T) {
	registry, err := render.NewRegistry(stubRenderer{name: "html"}, stubRenderer{name: "tui"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if diff := cmp.Diff([]string{"html", "tui"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	out, contentType, err := registry.Render(context.Background(), "", directive.Form{Title: "T"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render default: %v", err)
	}
	if string(out) != "html:T" || contentType != "text/plain" {
		t.Fatalf("unexpected default output %q (%s)", out, contentType)
	}

	if err := registry.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	renderer, err := registry.Get("")
	if err != nil || renderer.Name() != "tui" {
		t.Fatalf("expected tui default, got %v, %v", renderer, err)
	}
}

func TestRegistry_Errors(t *testing.T) {
	registry, err := render.NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := registry.Get(""); err == nil {
		t.Fatalf("expected error from empty registry")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}

	registry.MustRegister(stubRenderer{name: "broken", err: errors.New("boom")})
	if err := registry.Register(stubRenderer{name: "broken"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.SetDefault("missing"); err == nil {
		t.Fatalf("expected error for unknown default")
	}

	_, _, err = registry.Render(context.Background(), "broken", directive.Form{}, render.RenderOptions{})
	if err == nil || err.Error() != "render: broken: boom" {
		t.Fatalf("unexpected render error %v", err)
	}
	if registry.Has("missing") || !registry.Has("broken") {
		t.Fatalf("Has mismatch")
	}
}
