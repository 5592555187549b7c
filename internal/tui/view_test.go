// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/dotwell/dotwell/internal/app"
	"github.com/dotwell/dotwell/internal/config"
)

func TestCountHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want string
	}{
		{0, "Found 0 dotfile configurations"},
		{1, "Found 1 dotfile configuration"},
		{2, "Found 2 dotfile configurations"},
	}

	for _, tt := range tests {
		if got := countHeader(tt.n); got != tt.want {
			t.Errorf("countHeader(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRenderBrowseRow(t *testing.T) {
	t.Parallel()

	theme := renderBrowseRow(bundle("gruvbox", "themes", "Warm theme"), false)
	if !strings.HasPrefix(theme, NoCursor()+"  🎨 ") {
		t.Errorf("theme row should be indented with a palette icon, got %q", theme)
	}

	plain := renderBrowseRow(bundle("zsh", "shell", "Shell setup"), false)
	if !strings.HasPrefix(plain, NoCursor()+"📦 ") {
		t.Errorf("row should start with a package icon, got %q", plain)
	}
	for _, want := range []string{"zsh", "[make]", "Shell setup"} {
		if !strings.Contains(plain, want) {
			t.Errorf("row missing %q: %q", want, plain)
		}
	}

	selected := renderBrowseRow(bundle("zsh", "shell", "Shell setup"), true)
	if !strings.HasPrefix(selected, Cursor()) {
		t.Errorf("selected row should start with the cursor, got %q", selected)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	if got := renderMarkdown("   ", config.ColorSchemeDark, 40); got != "" {
		t.Errorf("blank description rendered as %q", got)
	}

	for _, scheme := range []config.ColorScheme{config.ColorSchemeAuto, config.ColorSchemeDark, config.ColorSchemeLight} {
		got := renderMarkdown("Minimal **zsh** setup", scheme, 0)
		if !strings.Contains(got, "Minimal") {
			t.Errorf("%s: rendered %q, want description text", scheme, got)
		}
	}
}

func TestResolveColorScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme config.ColorScheme
		dark   bool
		want   config.ColorScheme
	}{
		{config.ColorSchemeAuto, true, config.ColorSchemeDark},
		{config.ColorSchemeAuto, false, config.ColorSchemeLight},
		{"", false, config.ColorSchemeLight},
		{config.ColorSchemeDark, false, config.ColorSchemeDark},
		{config.ColorSchemeLight, true, config.ColorSchemeLight},
	}

	for _, tt := range tests {
		calls := 0
		hasDark := func() bool {
			calls++
			return tt.dark
		}
		if got := resolveColorScheme(tt.scheme, hasDark); got != tt.want {
			t.Errorf("resolveColorScheme(%q, dark=%v) = %q, want %q", tt.scheme, tt.dark, got, tt.want)
		}
		explicit := tt.scheme == config.ColorSchemeDark || tt.scheme == config.ColorSchemeLight
		if explicit && calls != 0 {
			t.Errorf("%q: terminal queried for an explicit scheme", tt.scheme)
		}
	}
}

func TestNew_ResolvesAutoScheme(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := app.NewSession(ctx, fakeScanner{}, &fakeInstaller{})
	m := New(ctx, session, WithColorScheme(config.ColorSchemeAuto))
	if m.colorScheme == config.ColorSchemeAuto {
		t.Error("New should resolve the auto scheme once")
	}
}

func TestRenderSeparator(t *testing.T) {
	t.Parallel()

	if got := RenderSeparator(5); !strings.Contains(got, "─────") {
		t.Errorf("RenderSeparator(5) = %q", got)
	}
	if got := RenderSeparator(0); !strings.Contains(got, strings.Repeat("─", 60)) {
		t.Error("RenderSeparator(0) should fall back to 60 columns")
	}
}

func TestRenderHelp(t *testing.T) {
	t.Parallel()

	got := renderHelp("b", "browse", "q", "quit")
	for _, want := range []string{"b", "browse", "q", "quit", "|"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderHelp missing %q: %q", want, got)
		}
	}
}
