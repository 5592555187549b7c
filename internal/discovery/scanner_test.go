// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dotwell/dotwell/internal/testutil"
	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

func entryNames(entries []dotwellfile.Bundle) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func hasDiagnostic(diags []Diagnostic, code DiagnosticCode) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestScan_EmptyRoots(t *testing.T) {
	t.Parallel()

	result := New(nil).Scan(context.Background())
	if len(result.Entries) != 0 {
		t.Errorf("Scan() returned %d entries, want 0", len(result.Entries))
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("Scan() returned diagnostics: %v", result.Diagnostics)
	}
}

func TestScan_MissingAndFileRootsAreSkipped(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	file := filepath.Join(tmp, "not-a-dir")
	testutil.MustWriteFile(t, file, "x", 0o644)

	result := New(NewRootSet(filepath.Join(tmp, "missing"), file)).Scan(context.Background())
	if len(result.Entries) != 0 {
		t.Errorf("Scan() returned %v, want no entries", entryNames(result.Entries))
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("missing roots should not produce diagnostics, got %v", result.Diagnostics)
	}
}

func TestScan_FindsNestedBundlesDepthFirst(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteBundle(t, root, testutil.MakeBundle("root"), dotwellfile.FormatTOML)
	testutil.WriteBundle(t, filepath.Join(root, "a"), testutil.MakeBundle("a"), dotwellfile.FormatTOML)
	testutil.WriteBundle(t, filepath.Join(root, "a", "deep", "er"), testutil.MakeBundle("a-deep"), dotwellfile.FormatJSON)
	testutil.WriteBundle(t, filepath.Join(root, "b"), testutil.MakeBundle("b"), dotwellfile.FormatJSON)

	result := New(NewRootSet(root)).Scan(context.Background())

	got := entryNames(result.Entries)
	want := []string{"root", "a", "a-deep", "b"}
	if len(got) != len(want) {
		t.Fatalf("Scan() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry[%d] = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}

	deep := result.Entries[2]
	wantDir := filepath.Join(root, "a", "deep", "er")
	if deep.Dir != wantDir {
		t.Errorf("Dir = %q, want %q", deep.Dir, wantDir)
	}
	if !filepath.IsAbs(deep.Dir) {
		t.Errorf("Dir %q should be absolute", deep.Dir)
	}
	if deep.Format != dotwellfile.FormatJSON {
		t.Errorf("Format = %q, want json", deep.Format)
	}
	if deep.File != filepath.Join(wantDir, "dotwell.json") {
		t.Errorf("File = %q", deep.File)
	}
}

func TestScan_SkipsHiddenAndBlockListedDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, skipped := range []string{".git", ".cache", "target", "node_modules", "build"} {
		testutil.WriteBundle(t, filepath.Join(root, skipped), testutil.MakeBundle(skipped), dotwellfile.FormatTOML)
		testutil.WriteBundle(t, filepath.Join(root, skipped, "child"), testutil.MakeBundle(skipped+"-child"), dotwellfile.FormatTOML)
	}
	testutil.WriteBundle(t, filepath.Join(root, "targets"), testutil.MakeBundle("targets"), dotwellfile.FormatTOML)
	testutil.WriteBundle(t, filepath.Join(root, "src", "build-tools"), testutil.MakeBundle("build-tools"), dotwellfile.FormatTOML)

	result := New(NewRootSet(root)).Scan(context.Background())

	// os.ReadDir sorts by name, so "src" is visited before "targets".
	got := entryNames(result.Entries)
	if len(got) != 2 || got[0] != "build-tools" || got[1] != "targets" {
		t.Errorf("Scan() = %v, want [build-tools targets]", got)
	}
}

func TestScan_HiddenRootIsStillScanned(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), ".dotfiles")
	testutil.WriteBundle(t, root, testutil.MakeBundle("hidden-root"), dotwellfile.FormatTOML)

	result := New(NewRootSet(root)).Scan(context.Background())
	if got := entryNames(result.Entries); len(got) != 1 || got[0] != "hidden-root" {
		t.Errorf("Scan() = %v, want [hidden-root]", got)
	}
}

func TestScan_PrefersTOMLOverJSON(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteBundle(t, root, testutil.MakeBundle("from-toml"), dotwellfile.FormatTOML)
	testutil.WriteBundle(t, root, testutil.MakeBundle("from-json"), dotwellfile.FormatJSON)

	result := New(NewRootSet(root)).Scan(context.Background())

	if got := entryNames(result.Entries); len(got) != 1 || got[0] != "from-toml" {
		t.Fatalf("Scan() = %v, want [from-toml]", got)
	}
	if !hasDiagnostic(result.Diagnostics, CodeDescriptorShadowed) {
		t.Errorf("expected %s diagnostic, got %v", CodeDescriptorShadowed, result.Diagnostics)
	}
}

func TestScan_MalformedTOMLDoesNotFallBackToJSON(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteRawDescriptor(t, root, "dotwell.toml", "name = \"broken\"\n")
	testutil.WriteBundle(t, root, testutil.MakeBundle("json"), dotwellfile.FormatJSON)
	testutil.WriteBundle(t, filepath.Join(root, "child"), testutil.MakeBundle("child"), dotwellfile.FormatTOML)

	result := New(NewRootSet(root)).Scan(context.Background())

	if got := entryNames(result.Entries); len(got) != 1 || got[0] != "child" {
		t.Fatalf("Scan() = %v, want [child]", got)
	}
	if !hasDiagnostic(result.Diagnostics, CodeDescriptorMalformed) {
		t.Errorf("expected %s diagnostic, got %v", CodeDescriptorMalformed, result.Diagnostics)
	}
}

func TestScan_MalformedDescriptorsAreSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteRawDescriptor(t, filepath.Join(root, "a"), "dotwell.json", `{"name": "a", "compiler": {"type": "scons"}}`)
	testutil.WriteRawDescriptor(t, filepath.Join(root, "b"), "dotwell.toml", "not toml at all [[[")
	testutil.WriteBundle(t, filepath.Join(root, "b", "nested"), testutil.MakeBundle("nested"), dotwellfile.FormatTOML)
	testutil.WriteBundle(t, filepath.Join(root, "c"), testutil.MakeBundle("c"), dotwellfile.FormatJSON)

	result := New(NewRootSet(root)).Scan(context.Background())

	got := entryNames(result.Entries)
	if len(got) != 2 || got[0] != "nested" || got[1] != "c" {
		t.Errorf("Scan() = %v, want [nested c]", got)
	}

	malformed := 0
	for _, d := range result.Diagnostics {
		if d.Code != CodeDescriptorMalformed {
			continue
		}
		malformed++
		if !errors.Is(d.Cause, dotwellfile.ErrMalformedDescriptor) {
			t.Errorf("diagnostic cause should match ErrMalformedDescriptor: %v", d.Cause)
		}
		if d.Severity != SeverityWarning {
			t.Errorf("Severity = %q, want warning", d.Severity)
		}
	}
	if malformed != 2 {
		t.Errorf("got %d malformed diagnostics, want 2", malformed)
	}
}

func TestScan_RootsInDeclaredOrder(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	first := filepath.Join(tmp, "z-first")
	second := filepath.Join(tmp, "a-second")
	testutil.WriteBundle(t, first, testutil.MakeBundle("first"), dotwellfile.FormatTOML)
	testutil.WriteBundle(t, second, testutil.MakeBundle("second"), dotwellfile.FormatTOML)

	result := New(NewRootSet(first, second)).Scan(context.Background())

	if got := entryNames(result.Entries); len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("Scan() = %v, want [first second]", got)
	}
}

func TestScan_OverlappingRootsYieldOneEntryPerDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inner := filepath.Join(root, "zsh")
	testutil.WriteBundle(t, inner, testutil.MakeBundle("zsh"), dotwellfile.FormatTOML)

	result := New(NewRootSet(root, inner, root)).Scan(context.Background())

	if got := entryNames(result.Entries); len(got) != 1 {
		t.Errorf("Scan() = %v, want exactly one entry", got)
	}
}

func TestScan_Deterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"delta", "alpha", "charlie", "bravo"} {
		testutil.WriteBundle(t, filepath.Join(root, name), testutil.MakeBundle(name), dotwellfile.FormatTOML)
	}

	s := New(NewRootSet(root))
	first := entryNames(s.Scan(context.Background()).Entries)
	second := entryNames(s.Scan(context.Background()).Entries)

	if len(first) != 4 || len(first) != len(second) {
		t.Fatalf("scans returned %v and %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("scan order differs at %d: %v vs %v", i, first, second)
		}
	}
}

func TestScan_SymlinkedDirectoriesNotFollowedByDefault(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	real := filepath.Join(tmp, "real")
	testutil.WriteBundle(t, real, testutil.MakeBundle("linked"), dotwellfile.FormatTOML)
	root := filepath.Join(tmp, "root")
	testutil.MustMkdirAll(t, root, 0o755)
	testutil.MustSymlink(t, real, filepath.Join(root, "link"))

	result := New(NewRootSet(root)).Scan(context.Background())
	if len(result.Entries) != 0 {
		t.Errorf("Scan() = %v, want no entries without follow_symlinks", entryNames(result.Entries))
	}

	result = New(NewRootSet(root), WithFollowSymlinks(true)).Scan(context.Background())
	if got := entryNames(result.Entries); len(got) != 1 || got[0] != "linked" {
		t.Errorf("Scan(follow) = %v, want [linked]", got)
	}
}

func TestScan_SymlinkCycleTerminates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteBundle(t, filepath.Join(root, "a"), testutil.MakeBundle("a"), dotwellfile.FormatTOML)
	testutil.MustSymlink(t, root, filepath.Join(root, "a", "loop"))

	result := New(NewRootSet(root), WithFollowSymlinks(true)).Scan(context.Background())

	if got := entryNames(result.Entries); len(got) != 1 || got[0] != "a" {
		t.Errorf("Scan() = %v, want [a]", got)
	}
	if !hasDiagnostic(result.Diagnostics, CodeSymlinkCycleSkipped) {
		t.Errorf("expected %s diagnostic, got %v", CodeSymlinkCycleSkipped, result.Diagnostics)
	}
}

func TestScan_UnreadableDirectoryIsTreatedAsEmpty(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	t.Parallel()

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	testutil.WriteBundle(t, filepath.Join(locked, "inner"), testutil.MakeBundle("inner"), dotwellfile.FormatTOML)
	testutil.WriteBundle(t, filepath.Join(root, "open"), testutil.MakeBundle("open"), dotwellfile.FormatTOML)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result := New(NewRootSet(root)).Scan(context.Background())

	if got := entryNames(result.Entries); len(got) != 1 || got[0] != "open" {
		t.Errorf("Scan() = %v, want [open]", got)
	}
	if !hasDiagnostic(result.Diagnostics, CodeDirReadFailed) {
		t.Errorf("expected %s diagnostic, got %v", CodeDirReadFailed, result.Diagnostics)
	}
}

func TestScan_Canceled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteBundle(t, root, testutil.MakeBundle("x"), dotwellfile.FormatTOML)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := New(NewRootSet(root)).Scan(ctx)
	if len(result.Entries) != 0 {
		t.Errorf("canceled scan returned entries: %v", entryNames(result.Entries))
	}
	if !hasDiagnostic(result.Diagnostics, CodeScanCanceled) {
		t.Errorf("expected %s diagnostic, got %v", CodeScanCanceled, result.Diagnostics)
	}
}

func TestIsSkippedDir(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		".git":         true,
		".":            true,
		"target":       true,
		"node_modules": true,
		"build":        true,
		"Build":        false,
		"zsh":          false,
		"targets":      false,
	}
	for name, want := range tests {
		if got := IsSkippedDir(name); got != want {
			t.Errorf("IsSkippedDir(%q) = %v, want %v", name, got, want)
		}
	}
}
