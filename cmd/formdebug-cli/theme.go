package main

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// builtinManifests ships two report palettes so themed HTML output works
// without any external theme files.
var builtinManifests = map[string]*theme.Manifest{
	"plain": {
		Name:    "plain",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":      "#ffffff",
			"color-text":    "#1a1a1a",
			"color-border":  "#cccccc",
			"color-error":   "#c0392b",
			"color-warning": "#d68910",
			"color-info":    "#2874a6",
			"color-muted":   "#666666",
			"color-code-bg": "#f4f4f4",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-bg":      "#14161a",
					"color-text":    "#e6e6e6",
					"color-border":  "#3a3f47",
					"color-muted":   "#9aa0a8",
					"color-code-bg": "#20242b",
				},
			},
		},
	},
	"contrast": {
		Name:    "contrast",
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":      "#ffffff",
			"color-text":    "#000000",
			"color-border":  "#000000",
			"color-error":   "#a00000",
			"color-warning": "#7a4b00",
			"color-info":    "#003d7a",
			"color-muted":   "#333333",
			"color-code-bg": "#eeeeee",
		},
	},
}

func builtinThemeNames() []string {
	names := make([]string, 0, len(builtinManifests))
	for name := range builtinManifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// builtinTheme resolves a manifest plus optional variant into the renderer
// configuration, with variant tokens overriding the base palette.
func builtinTheme(name, variant string) (*theme.RendererConfig, error) {
	manifest, ok := builtinManifests[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(builtinThemeNames(), ", "))
	}

	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}

	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("theme %q has no variant %q", name, variant)
		}
		for key, value := range v.Tokens {
			tokens[key] = value
		}
	}

	return &theme.RendererConfig{
		Theme:   manifest.Name,
		Variant: variant,
		Tokens:  tokens,
	}, nil
}
