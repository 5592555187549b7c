// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dotwell/dotwell/internal/testutil"
	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

func bundleIn(dir string, c dotwellfile.Compiler) dotwellfile.Bundle {
	return dotwellfile.Bundle{
		Descriptor: &dotwellfile.Descriptor{Name: "test", Compiler: c},
		Dir:        dir,
	}
}

func TestPlan_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		compiler dotwellfile.Compiler
		wantName string
		wantArgs []string
	}{
		{"gcc without flags", dotwellfile.Gcc{}, "gcc", nil},
		{"gcc with flags", dotwellfile.Gcc{Flags: []string{"-O2", "-o", "out", "main.c"}}, "gcc", []string{"-O2", "-o", "out", "main.c"}},
		{"make default target", dotwellfile.Make{}, "make", []string{"install"}},
		{"make explicit target", dotwellfile.Make{Target: "all"}, "make", []string{"all"}},
		{"cargo debug", dotwellfile.Cargo{}, "cargo", []string{"build"}},
		{"cargo release", dotwellfile.Cargo{Release: true}, "cargo", []string{"build", "--release"}},
		{"nix", dotwellfile.Nix{}, "nix-build", nil},
		{"nix flake", dotwellfile.Nix{Flake: true}, "nix-build", []string{"--flake"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			inv, err := Plan(bundleIn(dir, tt.compiler))
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if inv.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", inv.Name, tt.wantName)
			}
			if len(inv.Args) != 0 || len(tt.wantArgs) != 0 {
				if !reflect.DeepEqual(inv.Args, tt.wantArgs) {
					t.Errorf("Args = %q, want %q", inv.Args, tt.wantArgs)
				}
			}
			if inv.Dir != dir {
				t.Errorf("Dir = %q, want %q", inv.Dir, dir)
			}
			if inv.Script {
				t.Error("Script should be false")
			}
		})
	}
}

func TestPlan_InstallScriptBeatsMake(t *testing.T) {
	t.Parallel()

	for _, c := range []dotwellfile.Make{{}, {Target: "all"}} {
		dir := t.TempDir()
		testutil.MustWriteFile(t, filepath.Join(dir, InstallScriptName), "echo hi\n", 0o644)

		inv, err := Plan(bundleIn(dir, c))
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		if inv.Name != DefaultShell || !reflect.DeepEqual(inv.Args, []string{"install.sh"}) || !inv.Script {
			t.Errorf("Plan(target=%q) = %+v, want bash install.sh", c.Target, inv)
		}
		if got, want := inv.ScriptPath(), filepath.Join(dir, "install.sh"); got != want {
			t.Errorf("ScriptPath() = %q, want %q", got, want)
		}
	}
}

func TestPlan_InstallScriptDirectoryIsIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, InstallScriptName), 0o755)

	inv, err := Plan(bundleIn(dir, dotwellfile.Make{}))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if inv.Name != "make" {
		t.Errorf("Name = %q, want make", inv.Name)
	}
}

func TestPlan_InstallScriptOnlyAffectsMake(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, InstallScriptName), "exit 0\n", 0o644)

	inv, err := Plan(bundleIn(dir, dotwellfile.Cargo{}))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if inv.Name != "cargo" {
		t.Errorf("Name = %q, want cargo", inv.Name)
	}
}

func TestInstallerPlan_ConfiguredShell(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, InstallScriptName), "exit 0\n", 0o644)

	inv, err := New(WithShell("zsh")).Plan(bundleIn(dir, dotwellfile.Make{}))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if inv.Name != "zsh" {
		t.Errorf("Name = %q, want zsh", inv.Name)
	}
}

func TestPlan_Unplannable(t *testing.T) {
	t.Parallel()

	tests := []dotwellfile.Bundle{
		{Dir: "/x"},
		{Dir: "/x", Descriptor: &dotwellfile.Descriptor{Name: "no-compiler"}},
	}
	for _, b := range tests {
		if _, err := Plan(b); !errors.Is(err, ErrUnplannable) {
			t.Errorf("Plan(%+v) error = %v, want ErrUnplannable", b, err)
		}
	}
}

func TestInvocation_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		inv  Invocation
		want string
	}{
		{Invocation{Name: "make", Args: []string{"install"}}, "make install"},
		{Invocation{Name: "cargo", Args: []string{"build", "--release"}}, "cargo build --release"},
		{Invocation{Name: "nix-build"}, "nix-build"},
		{Invocation{Name: "gcc", Args: []string{"-DNAME=two words"}}, "gcc '-DNAME=two words'"},
	}
	for _, tt := range tests {
		if got := tt.inv.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
