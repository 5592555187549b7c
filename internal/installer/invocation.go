// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotwell/dotwell/pkg/dotwellfile"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// DefaultShell interprets install.sh when no shell is configured.
	DefaultShell = "bash"

	// InstallScriptName is the custom install script that takes precedence
	// over make for Make bundles.
	InstallScriptName = "install.sh"

	// DefaultMakeTarget is used when a Make bundle does not name a target.
	DefaultMakeTarget = "install"
)

// ErrUnplannable is returned by Plan when a bundle carries no usable compiler.
var ErrUnplannable = errors.New("bundle has no installable compiler")

// Invocation is the concrete subprocess an install runs.
type Invocation struct {
	// Name is the executable (looked up on PATH).
	Name string
	// Args are passed verbatim, without shell interpretation.
	Args []string
	// Dir is the working directory, always the bundle directory.
	Dir string
	// Script marks a shell running the bundle's install.sh.
	Script bool
}

// Plan maps a bundle to its invocation using DefaultShell for install scripts.
func Plan(b dotwellfile.Bundle) (Invocation, error) {
	return planWithShell(b, DefaultShell)
}

func planWithShell(b dotwellfile.Bundle, shell string) (Invocation, error) {
	if b.Descriptor == nil || b.Descriptor.Compiler == nil {
		return Invocation{}, fmt.Errorf("plan %q: %w", b.Dir, ErrUnplannable)
	}

	inv := Invocation{Dir: b.Dir}

	switch c := b.Descriptor.Compiler.(type) {
	case dotwellfile.Gcc:
		inv.Name = "gcc"
		inv.Args = append([]string(nil), c.Flags...)
	case dotwellfile.Make:
		if hasInstallScript(b.Dir) {
			inv.Name = shell
			inv.Args = []string{InstallScriptName}
			inv.Script = true
			break
		}
		inv.Name = "make"
		target := c.Target
		if target == "" {
			target = DefaultMakeTarget
		}
		inv.Args = []string{target}
	case dotwellfile.Cargo:
		inv.Name = "cargo"
		inv.Args = []string{"build"}
		if c.Release {
			inv.Args = append(inv.Args, "--release")
		}
	case dotwellfile.Nix:
		inv.Name = "nix-build"
		if c.Flake {
			inv.Args = []string{"--flake"}
		}
	default:
		return Invocation{}, fmt.Errorf("plan %q: compiler %T: %w", b.Dir, c, ErrUnplannable)
	}

	return inv, nil
}

// hasInstallScript reports whether dir holds an install.sh that is not a directory.
func hasInstallScript(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, InstallScriptName))
	return err == nil && !info.IsDir()
}

// ScriptPath returns the install script path for script invocations.
func (inv Invocation) ScriptPath() string {
	if !inv.Script || len(inv.Args) == 0 {
		return ""
	}
	return filepath.Join(inv.Dir, inv.Args[0])
}

// Argv returns the full argument vector, executable first.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Name}, inv.Args...)
}

// String renders the invocation as a copy-pasteable shell command line.
func (inv Invocation) String() string {
	argv := inv.Argv()
	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", arg)
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}
