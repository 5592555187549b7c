// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dotwell/dotwell/internal/config"
)

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Install.Shell = "zsh"
	cfg.Install.Timeout = 90 * time.Second
	cfg.Scan.FollowSymlinks = true

	ta := newTestApp(t, cfg)
	ta.app.Config = stubConfig{cfg: cfg, source: "/etc/dotwell/config.cue"}

	if err := ta.run("config", "show"); err != nil {
		t.Fatalf("config show: %v", err)
	}

	out := ta.stdout.String()
	wants := []string{
		"Config file: /etc/dotwell/config.cue",
		"color_scheme: auto",
		"shell: zsh",
		"virtual_shell: false",
		"timeout: 1m30s",
		"follow_symlinks: true",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShow_DefaultsAndVerboseFlag(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	if err := ta.run("config", "show", "--verbose"); err != nil {
		t.Fatalf("config show: %v", err)
	}

	out := ta.stdout.String()
	for _, want := range []string{"(using defaults)", "timeout: none", "verbose: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigPath_ExplicitFlag(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.cue")
	ta := newTestApp(t, nil)
	if err := ta.run("config", "path", "--config", path); err != nil {
		t.Fatalf("config path: %v", err)
	}

	if got := strings.TrimSpace(ta.stdout.String()); got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if !strings.Contains(ta.stderr.String(), "does not exist") {
		t.Errorf("missing file should be noted on stderr, got %q", ta.stderr.String())
	}
}

func TestConfigDump(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	if err := ta.run("config", "dump"); err != nil {
		t.Fatalf("config dump: %v", err)
	}
	if got, want := ta.stdout.String(), config.GenerateCUE(config.DefaultConfig()); got != want {
		t.Errorf("dump = %q, want %q", got, want)
	}
}
