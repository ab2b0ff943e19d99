// Package theme defines the editor colour presets (light, dark and high
// contrast) as go-theme manifests and resolves a selection into the tokens
// and CSS variables renderers consume.
package theme

import gotheme "github.com/goliatone/go-theme"

// Preset names one of the editor colour schemes.
type Preset string

const (
	Light        Preset = "light"
	Dark         Preset = "dark"
	HighContrast Preset = "high-contrast"
)

// ManifestName is the go-theme manifest that carries the editor presets.
const ManifestName = "editor"

// Presets lists the available presets in display order.
func Presets() []Preset {
	return []Preset{Light, Dark, HighContrast}
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	switch p {
	case Light, Dark, HighContrast:
		return true
	default:
		return false
	}
}

// ParsePreset maps user input onto a preset, defaulting to Light.
func ParsePreset(raw string) Preset {
	switch Preset(raw) {
	case Dark, "vs-dark":
		return Dark
	case HighContrast, "hc-black", "hc":
		return HighContrast
	default:
		return Light
	}
}

// ToggleDark implements the dark-theme button: dark switches to high
// contrast, anything else switches to dark.
func ToggleDark(current Preset) Preset {
	if current == Dark {
		return HighContrast
	}
	return Dark
}

// SelectLight implements the light-theme button.
func SelectLight(Preset) Preset {
	return Light
}

// DarkButtonLabel returns the caption of the dark-theme button for current.
func DarkButtonLabel(current Preset) string {
	if current == Dark {
		return "High Contrast"
	}
	return "Dark Theme"
}

// ShowLightButton reports whether the light-theme button should be offered.
func ShowLightButton(current Preset) bool {
	return current != Light
}

// EditorManifest returns the manifest describing all presets. The base tokens
// are the light preset; dark and high contrast are variants.
func EditorManifest() *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    ManifestName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"editor-theme": "vs-light",
			"background":   "#ffffff",
			"foreground":   "#1f2937",
			"surface":      "#f3f4f6",
			"border":       "#d1d5db",
			"accent":       "#2563eb",
			"danger":       "#dc2626",
		},
		Templates: map[string]string{
			"forms.page": "templates/page.tmpl",
		},
		Assets: gotheme.Assets{
			Prefix: "/assets/themes/editor",
			Files: map[string]string{
				"stylesheet": "editor.css",
			},
		},
		Variants: map[string]gotheme.Variant{
			string(Dark): {
				Tokens: map[string]string{
					"editor-theme": "vs-dark",
					"background":   "#111827",
					"foreground":   "#f9fafb",
					"surface":      "#1f2937",
					"border":       "#374151",
					"accent":       "#3b82f6",
					"danger":       "#ef4444",
				},
			},
			string(HighContrast): {
				Tokens: map[string]string{
					"editor-theme": "hc-black",
					"background":   "#000000",
					"foreground":   "#ffffff",
					"surface":      "#000000",
					"border":       "#ffffff",
					"accent":       "#ffff00",
					"danger":       "#ff6b6b",
				},
			},
		},
	}
}
