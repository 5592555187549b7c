// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotwell/dotwell/internal/app"
	"github.com/dotwell/dotwell/internal/issue"
	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

const themesCategory = "themes"

var logo = []string{
	"██████╗  ██████╗ ████████╗",
	"██╔══██╗██╔═══██╗╚══██╔══╝",
	"██║  ██║██║   ██║   ██║   ",
	"██║  ██║██║   ██║   ██║   ",
	"██████╔╝╚██████╔╝   ██║   ",
	"╚═════╝  ╚═════╝    ╚═╝   ",
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.session.View() {
	case app.ViewHome:
		body = m.renderHome()
	case app.ViewBrowse:
		body = m.renderBrowse()
	case app.ViewPreview:
		body = m.renderPreview()
	case app.ViewInstalling:
		body = m.renderInstalling()
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")

	if m.installing {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(" Installing ")
		b.WriteString(NameStyle.Render(m.target.Name()))
		b.WriteString(DimmedStyle.Render("..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(renderError(m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHome() string {
	var b strings.Builder

	b.WriteString("\n")
	for _, line := range logo {
		b.WriteString("  ")
		b.WriteString(TitleStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(SubtitleStyle.Render("Dotfiles Manager"))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(countHeader(len(m.session.Entries())))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(renderHelp("b", "browse dotfiles", "q", "quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderBrowse() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Browse Dotfiles"))
	b.WriteString("\n")
	b.WriteString(RenderSeparator(m.separatorWidth()))
	b.WriteString("\n")

	entries := m.session.Entries()
	if len(entries) == 0 {
		b.WriteString("\n")
		b.WriteString(DimmedStyle.Render("No dotfiles found."))
		b.WriteString("\n\n")
		b.WriteString(DimmedStyle.Render(emptyHint))
		b.WriteString("\n")
		b.WriteString("\n")
		b.WriteString(renderHelp("esc/b", "back", "q", "quit"))
		return b.String()
	}

	selected := m.session.SelectedIndex()
	for i, entry := range entries {
		b.WriteString(renderBrowseRow(entry, i == selected))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHelp("↑/↓", "navigate", "enter", "preview", "i", "install", "esc/b", "back", "q", "quit"))
	return b.String()
}

func renderBrowseRow(entry dotwellfile.Bundle, selected bool) string {
	d := entry.Descriptor

	indent, icon := "", "📦 "
	if d.Category == themesCategory {
		indent, icon = "  ", "🎨 "
	}

	row := indent + icon +
		NameStyle.Render(d.Name) + " " +
		CompilerStyle.Render("["+d.CompilerName()+"]") + " " +
		DimmedStyle.Render(d.Description)

	if selected {
		return Cursor() + SelectedStyle.Render(row)
	}
	return NoCursor() + row
}

func (m Model) renderPreview() string {
	entry, ok := m.session.Selected()
	if !ok {
		return ""
	}
	d := entry.Descriptor

	var meta strings.Builder
	writeField(&meta, "Name", d.Name)
	writeField(&meta, "Category", d.Category)
	writeField(&meta, "Compiler", CompilerStyle.Render(d.CompilerName()))
	writeField(&meta, "Path", DimmedStyle.Render(entry.Dir))

	meta.WriteString(LabelStyle.Render("Description:"))
	meta.WriteString("\n")
	if m.preview != "" {
		meta.WriteString(m.preview)
	} else {
		meta.WriteString("  ")
		meta.WriteString(d.Description)
	}
	meta.WriteString("\n\n")

	meta.WriteString(LabelStyle.Render("Dependencies:"))
	for _, dep := range d.Dependencies {
		meta.WriteString("\n  • ")
		meta.WriteString(dep)
	}

	var files strings.Builder
	files.WriteString(LabelStyle.Render("Files:"))
	for _, f := range d.Files {
		files.WriteString("\n  ")
		files.WriteString(FileIconStyle.Render("📄 "))
		files.WriteString(f)
	}

	panelWidth := max(m.width/2-4, 20)
	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		BoxStyle.Width(panelWidth).Render(meta.String()),
		BoxStyle.Width(panelWidth).Render(files.String()),
	)

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Preview"))
	b.WriteString("\n")
	b.WriteString(panels)
	b.WriteString("\n\n")
	b.WriteString(renderHelp("i/enter", "install", "esc", "back", "q", "quit"))
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(LabelStyle.Render(label + ":"))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n\n")
}

func (m Model) renderInstalling() string {
	outcome := m.session.LastOutcome()
	if outcome == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Installation Result"))
	b.WriteString("\n\n")

	switch {
	case outcome.Succeeded:
		b.WriteString("  ")
		b.WriteString(SuccessStyle.Render("✓  Installation completed successfully!"))
	case outcome.TimedOut:
		b.WriteString("  ")
		b.WriteString(ErrorStyle.Render("✗  Installation timed out!"))
	default:
		b.WriteString("  ")
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("✗  Installation failed! (exit code %d)", outcome.ExitCode)))
	}
	b.WriteString("\n\n")

	b.WriteString(LabelStyle.Render("Output:"))
	b.WriteString("\n")
	b.WriteString(m.output.View())
	b.WriteString("\n\n")
	b.WriteString(renderHelp("enter/esc", "back", "↑/↓", "scroll", "q", "quit"))
	return b.String()
}

func (m Model) renderFooter() string {
	return RenderSeparator(m.separatorWidth()) + "\n" +
		DimmedStyle.Render(" View: ") +
		TitleStyle.Render(m.session.View().String()) +
		DimmedStyle.Render(" | ") +
		RenderKeyBinding("q", "quit")
}

func (m Model) separatorWidth() int {
	return max(m.width-2, 1)
}

func renderError(err error) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ErrorStyle.Render("Install error: ") + ae.Format(false)
	}
	return ErrorStyle.Render("Install error: " + err.Error())
}

const emptyHint = "Create a dotwell.toml or dotwell.json file in your dotfiles directory."

// countHeader returns the "Found N dotfile configuration(s)" line.
func countHeader(n int) string {
	if n == 1 {
		return "Found 1 dotfile configuration"
	}
	return fmt.Sprintf("Found %d dotfile configurations", n)
}
