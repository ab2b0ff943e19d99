package theme

import "testing"

func TestToggleSequence(t *testing.T) {
	steps := []struct {
		press func(Preset) Preset
		want  Preset
	}{
		{ToggleDark, Dark},
		{ToggleDark, HighContrast},
		{ToggleDark, Dark},
		{SelectLight, Light},
		{ToggleDark, Dark},
	}

	current := Light
	for idx, step := range steps {
		current = step.press(current)
		if current != step.want {
			t.Fatalf("step %d: want %s, got %s", idx, step.want, current)
		}
	}
}

func TestButtonCaptions(t *testing.T) {
	if DarkButtonLabel(Light) != "Dark Theme" || DarkButtonLabel(Dark) != "High Contrast" || DarkButtonLabel(HighContrast) != "Dark Theme" {
		t.Fatalf("unexpected dark button captions")
	}
	if ShowLightButton(Light) || !ShowLightButton(Dark) || !ShowLightButton(HighContrast) {
		t.Fatalf("light button visibility mismatch")
	}
}

func TestSelector_ResolvesPresets(t *testing.T) {
	selector, err := NewSelector()
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	cases := map[Preset]string{
		Light:        "vs-light",
		Dark:         "vs-dark",
		HighContrast: "hc-black",
	}
	for preset, editorTheme := range cases {
		cfg, err := selector.SelectPreset(preset)
		if err != nil {
			t.Fatalf("%s: select: %v", preset, err)
		}
		if cfg.EditorTheme() != editorTheme {
			t.Fatalf("%s: want editor theme %s, got %s", preset, editorTheme, cfg.EditorTheme())
		}
		if cfg.Preset() != preset {
			t.Fatalf("%s: preset round trip mismatch, got %s", preset, cfg.Preset())
		}
		if cfg.CSSVars["--background"] != cfg.Tokens["background"] {
			t.Fatalf("%s: css vars not derived from tokens", preset)
		}
		if _, leaked := cfg.CSSVars["--editor-theme"]; leaked {
			t.Fatalf("%s: editor theme should not become a css var", preset)
		}
	}
}

func TestSelector_DefaultsAndErrors(t *testing.T) {
	selector, err := NewSelector()
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select defaults: %v", err)
	}
	if selection.Theme != ManifestName || selection.Variant != string(Light) {
		t.Fatalf("unexpected defaults %s/%s", selection.Theme, selection.Variant)
	}

	if _, err := selector.Select("missing", ""); err == nil {
		t.Fatalf("expected error for unknown manifest")
	}
	if _, err := selector.Select(ManifestName, "sepia"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestParsePreset(t *testing.T) {
	cases := map[string]Preset{
		"":              Light,
		"light":         Light,
		"dark":          Dark,
		"vs-dark":       Dark,
		"high-contrast": HighContrast,
		"hc-black":      HighContrast,
		"bogus":         Light,
	}
	for raw, want := range cases {
		if got := ParsePreset(raw); got != want {
			t.Fatalf("%q: want %s, got %s", raw, want, got)
		}
	}
}
