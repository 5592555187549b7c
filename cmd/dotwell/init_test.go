// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dotwell/dotwell/internal/issue"
	"github.com/dotwell/dotwell/internal/testutil"
	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

func TestInit_WritesParseableDescriptor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		file     string
		wantName string
		wantKind dotwellfile.CompilerKind
	}{
		{"defaults", nil, "dotwell.toml", "zsh", dotwellfile.CompilerMake},
		{"json cargo", []string{"--format", "json", "--compiler", "cargo"}, "dotwell.json", "zsh", dotwellfile.CompilerCargo},
		{"explicit name", []string{"--name", "shell", "--compiler", "nix"}, "dotwell.toml", "shell", dotwellfile.CompilerNix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := filepath.Join(t.TempDir(), "zsh")
			testutil.MustMkdirAll(t, dir, 0o755)

			ta := newTestApp(t, nil)
			if err := ta.run(append([]string{"init", dir}, tt.args...)...); err != nil {
				t.Fatalf("init: %v", err)
			}

			path := filepath.Join(dir, tt.file)
			d, err := dotwellfile.ParseFile(path)
			if err != nil {
				t.Fatalf("ParseFile(%s): %v", path, err)
			}
			if d.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", d.Name, tt.wantName)
			}
			if d.Compiler.Kind() != tt.wantKind {
				t.Errorf("compiler = %s, want %s", d.Compiler.Kind(), tt.wantKind)
			}
			if !strings.Contains(ta.stdout.String(), "Created "+path) {
				t.Errorf("output should name the created file: %q", ta.stdout.String())
			}
		})
	}
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	t.Parallel()

	for _, existing := range dotwellfile.DescriptorFileNames() {
		t.Run(existing, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			original := testutil.WriteRawDescriptor(t, dir, existing, "keep me")

			ta := newTestApp(t, nil)
			err := ta.run("init", dir)

			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.IssueId != issue.DescriptorExistsId {
				t.Fatalf("err = %v, want descriptor-exists ActionableError", err)
			}
			data, readErr := os.ReadFile(original)
			if readErr != nil || string(data) != "keep me" {
				t.Errorf("existing descriptor was modified: %q, %v", data, readErr)
			}
			if _, statErr := os.Stat(filepath.Join(dir, "dotwell.toml")); existing == "dotwell.json" && statErr == nil {
				t.Error("no new descriptor should be written next to an existing one")
			}
		})
	}
}

func TestInit_InvalidFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown compiler", []string{"--compiler", "bazel"}, dotwellfile.ErrInvalidCompilerKind},
		{"unknown format", []string{"--format", "yaml"}, dotwellfile.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			ta := newTestApp(t, nil)
			err := ta.run(append([]string{"init", dir}, tt.args...)...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("nothing should be written, found %d entries", len(entries))
			}
		})
	}
}

func TestInit_MissingDirectory(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	err := ta.run("init", filepath.Join(t.TempDir(), "missing"))

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want ActionableError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err should wrap os.ErrNotExist: %v", err)
	}
}
