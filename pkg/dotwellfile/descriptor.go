// SPDX-License-Identifier: MPL-2.0

package dotwellfile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// FormatTOML is the preferred descriptor encoding (dotwell.toml).
	FormatTOML Format = "toml"
	// FormatJSON is the fallback descriptor encoding (dotwell.json).
	FormatJSON Format = "json"

	// DescriptorBaseName is the descriptor file name without extension.
	DescriptorBaseName = "dotwell"
)

var (
	// ErrMalformedDescriptor is matched by every MalformedDescriptorError.
	ErrMalformedDescriptor = errors.New("malformed descriptor")
	// ErrInvalidFormat is returned when a Format value is not recognized.
	ErrInvalidFormat = errors.New("invalid descriptor format")
)

type (
	// Format identifies a descriptor encoding.
	Format string

	// Descriptor is the parsed content of a dotwell.toml or dotwell.json file.
	// Name and Compiler are always set on a successfully parsed descriptor.
	Descriptor struct {
		Name         string
		Description  string
		Category     string
		Compiler     Compiler
		Dependencies []string
		Files        []string
	}

	// Bundle is a descriptor paired with the directory it was discovered in.
	Bundle struct {
		// Descriptor is the parsed descriptor.
		Descriptor *Descriptor
		// Dir is the absolute path of the bundle directory.
		Dir string
		// File is the absolute path of the descriptor file that was parsed.
		File string
		// Format is the encoding of File.
		Format Format
	}

	// MalformedDescriptorError reports content that does not match the descriptor
	// schema. errors.Is(err, ErrMalformedDescriptor) holds for every instance.
	MalformedDescriptorError struct {
		// Path is the descriptor file, when known.
		Path string
		// Format is the encoding that was attempted.
		Format Format
		// Reason is a short description of the schema violation.
		Reason string
		// Cause is the underlying decoder error (optional).
		Cause error
	}
)

// DescriptorFileNames returns the recognized descriptor file names in preference order.
func DescriptorFileNames() []string {
	return []string{
		DescriptorBaseName + "." + string(FormatTOML),
		DescriptorBaseName + "." + string(FormatJSON),
	}
}

// FormatForFile returns the format implied by a descriptor file name.
func FormatForFile(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	f := Format(strings.ToLower(ext))
	if ok, _ := f.IsValid(); !ok {
		return "", fmt.Errorf("%w: cannot infer format of %q", ErrInvalidFormat, path)
	}
	return f, nil
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// FileName returns the descriptor file name for this format.
func (f Format) FileName() string { return DescriptorBaseName + "." + string(f) }

// IsValid returns whether the Format is a recognized encoding.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatTOML, FormatJSON:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w %q (valid: toml, json)", ErrInvalidFormat, string(f))}
	}
}

// CompilerName returns the canonical name of the descriptor's compiler.
func (d *Descriptor) CompilerName() string {
	if d == nil {
		return ""
	}
	return CompilerName(d.Compiler)
}

// Name returns the bundle's declared name.
func (b Bundle) Name() string {
	if b.Descriptor == nil {
		return ""
	}
	return b.Descriptor.Name
}

// Scaffold returns a starter descriptor for a new bundle.
func Scaffold(name string, kind CompilerKind) (*Descriptor, error) {
	c, err := newCompiler(kind)
	if err != nil {
		return nil, err
	}
	return &Descriptor{
		Name:        name,
		Description: fmt.Sprintf("%s configuration", name),
		Category:    "general",
		Compiler:    c,
	}, nil
}

// Error implements the error interface.
func (e *MalformedDescriptorError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed ")
	if e.Format != "" {
		sb.WriteString(string(e.Format))
		sb.WriteString(" ")
	}
	sb.WriteString("descriptor")
	if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Is reports ErrMalformedDescriptor as a match.
func (e *MalformedDescriptorError) Is(target error) bool {
	return target == ErrMalformedDescriptor
}

// Unwrap returns the underlying decoder error.
func (e *MalformedDescriptorError) Unwrap() error { return e.Cause }
