package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/cssinput/internal/highlight"
)

// colorNames are the color values a theme file may use. "none" removes the
// category's color entirely.
var colorNames = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"gray":    color.FgHiBlack,
}

// loadTheme reads a YAML mapping of display categories to color names and
// applies it on top of the default theme, so a file only needs to list the
// categories it changes.
func loadTheme(path string) (highlight.Theme, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}

	theme := highlight.DefaultTheme()
	for category, name := range overrides {
		if name == "none" {
			delete(theme, highlight.Category(category))
			continue
		}
		attr, ok := colorNames[name]
		if !ok {
			return nil, fmt.Errorf("theme %s: unknown color %q for %q", path, name, category)
		}
		theme[highlight.Category(category)] = color.New(attr)
	}
	return theme, nil
}
