package theme

import (
	"fmt"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// Selector resolves theme/variant pairs against a set of manifests. The
// manifests are also registered with a go-theme registry, which rejects
// duplicates and malformed manifests up front.
type Selector struct {
	provider       gotheme.ThemeProvider
	manifests      map[string]*gotheme.Manifest
	defaultTheme   string
	defaultVariant string
}

// NewSelector registers the supplied manifests (the editor manifest when none
// are given) and returns a Selector defaulting to the light preset.
func NewSelector(manifests ...*gotheme.Manifest) (*Selector, error) {
	if len(manifests) == 0 {
		manifests = []*gotheme.Manifest{EditorManifest()}
	}

	registry := gotheme.NewRegistry()
	byName := make(map[string]*gotheme.Manifest, len(manifests))
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("theme: register %q: %w", manifest.Name, err)
		}
		byName[manifest.Name] = manifest
	}
	if len(byName) == 0 {
		return nil, fmt.Errorf("theme: no manifests registered")
	}

	defaultTheme := ManifestName
	if _, ok := byName[defaultTheme]; !ok {
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)
		defaultTheme = names[0]
	}

	return &Selector{
		provider:       registry,
		manifests:      byName,
		defaultTheme:   defaultTheme,
		defaultVariant: string(Light),
	}, nil
}

// Provider exposes the underlying go-theme registry.
func (s *Selector) Provider() gotheme.ThemeProvider {
	return s.provider
}

// Select returns the manifest and variant for name/variant. Empty arguments
// fall back to the defaults; the light preset is the manifest's base and has
// no variant entry.
func (s *Selector) Select(name, variant string, _ ...gotheme.QueryOption) (*gotheme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("theme: manifest %q not registered", name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}
	if variant != string(Light) {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theme: manifest %q has no variant %q", name, variant)
		}
	}

	return &gotheme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// SelectPreset is Select for the editor manifest.
func (s *Selector) SelectPreset(preset Preset) (Config, error) {
	selection, err := s.Select(ManifestName, string(preset))
	if err != nil {
		return Config{}, err
	}
	return Resolve(selection), nil
}
