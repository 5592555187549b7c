// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"

	"github.com/dotwell/dotwell/internal/config"
)

const defaultWrapWidth = 60

// resolveColorScheme turns ColorSchemeAuto into dark or light using hasDark.
// New calls it once; rendering itself never queries the terminal.
func resolveColorScheme(scheme config.ColorScheme, hasDark func() bool) config.ColorScheme {
	if scheme != config.ColorSchemeAuto && scheme != "" {
		return scheme
	}
	if hasDark() {
		return config.ColorSchemeDark
	}
	return config.ColorSchemeLight
}

// renderMarkdown renders content with glamour in the given color scheme,
// wrapped at width. Unresolved schemes render dark. It falls back to the raw
// content when rendering fails.
func renderMarkdown(content string, scheme config.ColorScheme, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWrapWidth
	}

	style := styles.DarkStyle
	if scheme == config.ColorSchemeLight {
		style = styles.LightStyle
	}
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
		glamour.WithStandardStyle(style),
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
