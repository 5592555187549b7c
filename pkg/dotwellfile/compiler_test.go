// SPDX-License-Identifier: MPL-2.0

package dotwellfile

import (
	"errors"
	"testing"
)

func TestCompilerName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		compiler Compiler
		want     string
	}{
		{Gcc{Flags: []string{"-O2"}}, "gcc"},
		{Make{Target: "all"}, "make"},
		{Cargo{Release: true}, "cargo"},
		{Nix{}, "nix"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := CompilerName(tt.compiler); got != tt.want {
			t.Errorf("CompilerName(%#v) = %q, want %q", tt.compiler, got, tt.want)
		}
	}
}

func TestCompilerKind_IsValid(t *testing.T) {
	t.Parallel()

	for _, k := range CompilerKinds() {
		if ok, errs := k.IsValid(); !ok || len(errs) != 0 {
			t.Errorf("CompilerKind(%q).IsValid() = %v, %v; want true", k, ok, errs)
		}
	}

	for _, k := range []CompilerKind{"", "GCC", "cmake"} {
		ok, errs := k.IsValid()
		if ok {
			t.Errorf("CompilerKind(%q).IsValid() = true, want false", k)
			continue
		}
		if len(errs) == 0 || !errors.Is(errs[0], ErrInvalidCompilerKind) {
			t.Errorf("CompilerKind(%q) error should wrap ErrInvalidCompilerKind, got %v", k, errs)
		}
	}
}

func TestFormatForFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"/a/dotwell.toml", FormatTOML, false},
		{"dotwell.json", FormatJSON, false},
		{"dotwell.JSON", FormatJSON, false},
		{"dotwell.yaml", "", true},
		{"dotwell", "", true},
	}

	for _, tt := range tests {
		got, err := FormatForFile(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatForFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("FormatForFile(%q) error should wrap ErrInvalidFormat", tt.path)
		}
		if got != tt.want {
			t.Errorf("FormatForFile(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDescriptorFileNames_PreferTOML(t *testing.T) {
	t.Parallel()

	names := DescriptorFileNames()
	if len(names) != 2 || names[0] != "dotwell.toml" || names[1] != "dotwell.json" {
		t.Errorf("DescriptorFileNames() = %v, want [dotwell.toml dotwell.json]", names)
	}
}

func TestScaffold(t *testing.T) {
	t.Parallel()

	d, err := Scaffold("alacritty", CompilerNix)
	if err != nil {
		t.Fatalf("Scaffold() error: %v", err)
	}
	if d.Name != "alacritty" || d.Compiler != (Nix{}) {
		t.Errorf("Scaffold() = %#v", d)
	}

	if _, err := Scaffold("x", "ninja"); !errors.Is(err, ErrInvalidCompilerKind) {
		t.Errorf("Scaffold with unknown kind error = %v, want ErrInvalidCompilerKind", err)
	}
}
