// SPDX-License-Identifier: MPL-2.0

package dotwellfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

type (
	// descriptorWire is the shared serialized shape for both encodings.
	// Pointers distinguish absent required keys from zero values.
	descriptorWire struct {
		Name         *string       `toml:"name" json:"name"`
		Description  string        `toml:"description" json:"description"`
		Category     string        `toml:"category" json:"category"`
		Dependencies []string      `toml:"dependencies" json:"dependencies"`
		Files        []string      `toml:"files" json:"files"`
		Compiler     *compilerWire `toml:"compiler" json:"compiler"`
	}

	// compilerWire is the internally tagged compiler object. Fields that do not
	// belong to the tagged kind are ignored on decode and omitted on encode.
	compilerWire struct {
		Type    CompilerKind `toml:"type" json:"type"`
		Flags   []string     `toml:"flags,omitempty" json:"flags,omitempty"`
		Target  string       `toml:"target,omitempty" json:"target,omitempty"`
		Release bool         `toml:"release,omitempty" json:"release,omitempty"`
		Flake   bool         `toml:"flake,omitempty" json:"flake,omitempty"`
	}
)

var (
	descriptorKeys = []string{"name", "description", "category", "dependencies", "files", "compiler"}
	compilerKeys   = []string{"type", "flags", "target", "release", "flake"}
)

// ParseFile reads a descriptor file and parses it using the format implied by its name.
// Read failures are returned as-is (typically *fs.PathError); schema failures are
// *MalformedDescriptorError with Path set.
func ParseFile(path string) (*Descriptor, error) {
	format, err := FormatForFile(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	d, err := Parse(data, format)
	if err != nil {
		var mde *MalformedDescriptorError
		if errors.As(err, &mde) {
			mde.Path = path
		}
		return nil, err
	}
	return d, nil
}

// Parse decodes descriptor content in the given format.
func Parse(content []byte, format Format) (*Descriptor, error) {
	var wire descriptorWire

	switch format {
	case FormatTOML:
		if err := decodeExactKeys(content, toml.Unmarshal, toml.Marshal, &wire); err != nil {
			return nil, &MalformedDescriptorError{Format: format, Reason: "invalid TOML", Cause: err}
		}
	case FormatJSON:
		if err := decodeExactKeys(content, json.Unmarshal, json.Marshal, &wire); err != nil {
			return nil, &MalformedDescriptorError{Format: format, Reason: "invalid JSON", Cause: err}
		}
	default:
		return nil, &MalformedDescriptorError{
			Format: format,
			Reason: "unsupported format",
			Cause:  fmt.Errorf("%w %q", ErrInvalidFormat, string(format)),
		}
	}

	return wire.toDescriptor(format)
}

// Encode serializes d in the given format. Parse(Encode(d)) yields a descriptor
// equal to d, except that empty slices (Dependencies, Files, Gcc.Flags) come
// back as nil: Parse never returns empty non-nil slices.
func Encode(d *Descriptor, format Format) ([]byte, error) {
	if d == nil {
		return nil, errors.New("cannot encode nil descriptor")
	}
	wire, err := fromDescriptor(d)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(wire); err != nil {
			return nil, fmt.Errorf("failed to encode TOML descriptor: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(wire, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON descriptor: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidFormat, string(format))
	}
}

// decodeExactKeys decodes content into wire matching keys case-sensitively.
// Both codecs fold case when matching struct fields, so the document is first
// decoded generically and every key that is not an exact schema key is dropped,
// the same as any other unknown key.
func decodeExactKeys(
	content []byte,
	unmarshal func([]byte, any) error,
	marshal func(any) ([]byte, error),
	wire *descriptorWire,
) error {
	var raw map[string]any
	if err := unmarshal(content, &raw); err != nil {
		return err
	}
	if raw == nil {
		raw = map[string]any{}
	}

	keepKeys(raw, descriptorKeys)
	if c, ok := raw["compiler"].(map[string]any); ok {
		keepKeys(c, compilerKeys)
	}

	data, err := marshal(raw)
	if err != nil {
		return err
	}
	return unmarshal(data, wire)
}

func keepKeys(m map[string]any, keys []string) {
	for k := range m {
		if !slices.Contains(keys, k) {
			delete(m, k)
		}
	}
}

func (w *descriptorWire) toDescriptor(format Format) (*Descriptor, error) {
	if w.Name == nil {
		return nil, &MalformedDescriptorError{Format: format, Reason: `missing required field "name"`}
	}
	if w.Compiler == nil {
		return nil, &MalformedDescriptorError{Format: format, Reason: `missing required field "compiler"`}
	}

	c, err := w.Compiler.toCompiler()
	if err != nil {
		return nil, &MalformedDescriptorError{Format: format, Reason: "invalid compiler", Cause: err}
	}

	return &Descriptor{
		Name:         *w.Name,
		Description:  w.Description,
		Category:     w.Category,
		Compiler:     c,
		Dependencies: nilIfEmpty(w.Dependencies),
		Files:        nilIfEmpty(w.Files),
	}, nil
}

func (w *compilerWire) toCompiler() (Compiler, error) {
	if w.Type == "" {
		return nil, errors.New(`missing "type" discriminator`)
	}
	if ok, errs := w.Type.IsValid(); !ok {
		return nil, errs[0]
	}

	switch w.Type {
	case CompilerGcc:
		return Gcc{Flags: nilIfEmpty(w.Flags)}, nil
	case CompilerMake:
		return Make{Target: w.Target}, nil
	case CompilerCargo:
		return Cargo{Release: w.Release}, nil
	case CompilerNix:
		return Nix{Flake: w.Flake}, nil
	}
	return nil, &InvalidCompilerKindError{Value: w.Type}
}

func fromDescriptor(d *Descriptor) (*descriptorWire, error) {
	cw := &compilerWire{}
	switch c := d.Compiler.(type) {
	case Gcc:
		cw.Type, cw.Flags = CompilerGcc, c.Flags
	case Make:
		cw.Type, cw.Target = CompilerMake, c.Target
	case Cargo:
		cw.Type, cw.Release = CompilerCargo, c.Release
	case Nix:
		cw.Type, cw.Flake = CompilerNix, c.Flake
	case nil:
		return nil, fmt.Errorf("descriptor %q has no compiler", d.Name)
	default:
		return nil, fmt.Errorf("descriptor %q has unsupported compiler %T", d.Name, c)
	}

	name := d.Name
	return &descriptorWire{
		Name:         &name,
		Description:  d.Description,
		Category:     d.Category,
		Dependencies: emptyIfNil(d.Dependencies),
		Files:        emptyIfNil(d.Files),
		Compiler:     cw,
	}, nil
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
