package theme

import (
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// Config is the resolved theme handed to renderers.
type Config struct {
	Theme   string            `json:"theme"`
	Variant string            `json:"variant"`
	Tokens  map[string]string `json:"tokens"`
	CSSVars map[string]string `json:"cssVars"`
	Assets  map[string]string `json:"assets,omitempty"`
}

// Preset returns the editor preset the config was resolved for.
func (c Config) Preset() Preset {
	return ParsePreset(c.Variant)
}

// EditorTheme returns the code-editor theme identifier (vs-light, vs-dark,
// hc-black).
func (c Config) EditorTheme() string {
	return c.Tokens["editor-theme"]
}

// StyleDeclarations renders the CSS variables as a sorted declaration list.
func (c Config) StyleDeclarations() string {
	if len(c.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.CSSVars))
	for name := range c.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(c.CSSVars[name])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

// Resolve merges the manifest base tokens with the selected variant and
// derives CSS variables (`--name`) from the result.
func Resolve(selection *gotheme.Selection) Config {
	if selection == nil || selection.Manifest == nil {
		return Config{}
	}
	manifest := selection.Manifest

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	assets := assetURLs(manifest.Assets.Prefix, manifest.Assets.Files)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		prefix := variant.Assets.Prefix
		if prefix == "" {
			prefix = manifest.Assets.Prefix
		}
		for key, value := range assetURLs(prefix, variant.Assets.Files) {
			if assets == nil {
				assets = make(map[string]string)
			}
			assets[key] = value
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if key == "editor-theme" {
			continue
		}
		cssVars["--"+key] = value
	}

	return Config{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: cssVars,
		Assets:  assets,
	}
}

func assetURLs(prefix string, files map[string]string) map[string]string {
	if len(files) == 0 {
		return nil
	}
	out := make(map[string]string, len(files))
	for key, file := range files {
		if prefix == "" {
			out[key] = file
			continue
		}
		out[key] = strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return out
}
