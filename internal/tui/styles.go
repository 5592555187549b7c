// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorCyan      = lipgloss.Color("#22D3EE")
	colorBlue      = lipgloss.Color("#60A5FA")
	colorYellow    = lipgloss.Color("#FBBF24")
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorDim       = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorSeparator = lipgloss.Color("#4B5563")
	colorHighlight = lipgloss.Color("#374151")
)

// Styles
var (
	// Logo and view titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	// Browse list rows
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Background(colorHighlight)

	NameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	CompilerStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	// Preview labels ("Name:", "Category:", ...)
	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	FileIconStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	DimmedStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(colorSeparator)

	KeyStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

// Cursor returns the selection cursor.
func Cursor() string {
	return lipgloss.NewStyle().
		Foreground(colorCyan).
		Bold(true).
		Render("› ")
}

// NoCursor returns spacing for non-selected items
func NoCursor() string {
	return "  "
}

// RenderSeparator returns a horizontal separator line.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 60
	}
	return SeparatorStyle.Render(strings.Repeat("─", width))
}

// RenderKeyBinding formats a key binding with highlighted key.
func RenderKeyBinding(key, description string) string {
	return KeyStyle.Render(key) + " " + DimmedStyle.Render(description)
}

// renderHelp joins key bindings given as key/description pairs.
func renderHelp(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, RenderKeyBinding(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, DimmedStyle.Render(" | "))
}
