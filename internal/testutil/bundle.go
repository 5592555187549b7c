// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

// WriteBundle encodes d into dir using format and returns the descriptor path.
func WriteBundle(t testing.TB, dir string, d *dotwellfile.Descriptor, format dotwellfile.Format) string {
	t.Helper()
	data, err := dotwellfile.Encode(d, format)
	if err != nil {
		t.Fatalf("failed to encode descriptor %q: %v", d.Name, err)
	}
	path := filepath.Join(dir, format.FileName())
	MustWriteFile(t, path, string(data), 0o644)
	return path
}

// WriteRawDescriptor writes content verbatim as dir/name (e.g., a malformed descriptor).
func WriteRawDescriptor(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	MustWriteFile(t, path, content, 0o644)
	return path
}

// MakeBundle returns a minimal descriptor for name using the make compiler.
func MakeBundle(name string) *dotwellfile.Descriptor {
	return &dotwellfile.Descriptor{Name: name, Compiler: dotwellfile.Make{}}
}

// MustExist fails the test when path does not exist.
func MustExist(t testing.TB, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}
