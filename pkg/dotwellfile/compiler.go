// SPDX-License-Identifier: MPL-2.0

package dotwellfile

import (
	"errors"
	"fmt"
)

const (
	// CompilerGcc builds the bundle with gcc.
	CompilerGcc CompilerKind = "gcc"
	// CompilerMake installs the bundle with make (or the bundle's install.sh).
	CompilerMake CompilerKind = "make"
	// CompilerCargo builds the bundle with cargo.
	CompilerCargo CompilerKind = "cargo"
	// CompilerNix builds the bundle with nix-build.
	CompilerNix CompilerKind = "nix"
)

// ErrInvalidCompilerKind is returned when a CompilerKind value is not recognized.
var ErrInvalidCompilerKind = errors.New("invalid compiler kind")

type (
	// CompilerKind is the serialized discriminator of a Compiler (the "type" field).
	CompilerKind string

	// InvalidCompilerKindError is returned when a CompilerKind value is not recognized.
	// It wraps ErrInvalidCompilerKind for errors.Is() compatibility.
	InvalidCompilerKindError struct {
		Value CompilerKind
	}

	// Compiler is the closed set of install tool variants. Exactly one of Gcc, Make,
	// Cargo or Nix; the unexported marker keeps other packages from adding cases.
	Compiler interface {
		Kind() CompilerKind
		isCompiler()
	}

	// Gcc invokes gcc with optional extra flags.
	Gcc struct {
		Flags []string
	}

	// Make invokes make with Target, or "install" when Target is empty.
	// A bundle-provided install.sh takes precedence over make.
	Make struct {
		Target string
	}

	// Cargo runs cargo build, in release mode when Release is set.
	Cargo struct {
		Release bool
	}

	// Nix runs nix-build, passing --flake when Flake is set.
	Nix struct {
		Flake bool
	}
)

// CompilerKinds lists every recognized kind in declaration order.
func CompilerKinds() []CompilerKind {
	return []CompilerKind{CompilerGcc, CompilerMake, CompilerCargo, CompilerNix}
}

// Kind implements Compiler.
func (Gcc) Kind() CompilerKind { return CompilerGcc }

// Kind implements Compiler.
func (Make) Kind() CompilerKind { return CompilerMake }

// Kind implements Compiler.
func (Cargo) Kind() CompilerKind { return CompilerCargo }

// Kind implements Compiler.
func (Nix) Kind() CompilerKind { return CompilerNix }

func (Gcc) isCompiler()   {}
func (Make) isCompiler()  {}
func (Cargo) isCompiler() {}
func (Nix) isCompiler()   {}

// CompilerName returns the canonical lowercase name of c for display.
// A nil compiler yields an empty string.
func CompilerName(c Compiler) string {
	if c == nil {
		return ""
	}
	return string(c.Kind())
}

// String returns the string representation of the CompilerKind.
func (k CompilerKind) String() string { return string(k) }

// IsValid returns whether the CompilerKind is one of the recognized kinds,
// and a list of validation errors if it is not.
func (k CompilerKind) IsValid() (bool, []error) {
	switch k {
	case CompilerGcc, CompilerMake, CompilerCargo, CompilerNix:
		return true, nil
	default:
		return false, []error{&InvalidCompilerKindError{Value: k}}
	}
}

// Error implements the error interface for InvalidCompilerKindError.
func (e *InvalidCompilerKindError) Error() string {
	return fmt.Sprintf("invalid compiler type %q (valid: gcc, make, cargo, nix)", e.Value)
}

// Unwrap returns ErrInvalidCompilerKind for errors.Is() compatibility.
func (e *InvalidCompilerKindError) Unwrap() error { return ErrInvalidCompilerKind }

// newCompiler builds the zero-configured variant for kind.
func newCompiler(kind CompilerKind) (Compiler, error) {
	switch kind {
	case CompilerGcc:
		return Gcc{}, nil
	case CompilerMake:
		return Make{}, nil
	case CompilerCargo:
		return Cargo{}, nil
	case CompilerNix:
		return Nix{}, nil
	default:
		return nil, &InvalidCompilerKindError{Value: kind}
	}
}
