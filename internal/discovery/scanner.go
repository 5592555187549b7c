// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotwell/dotwell/pkg/dotwellfile"

	"github.com/charmbracelet/log"
)

// hiddenPrefix marks directories the scanner never descends into.
const hiddenPrefix = "."

// skippedDirNames are build-artifact directories that never contain bundles.
var skippedDirNames = map[string]struct{}{
	"target":       {},
	"node_modules": {},
	"build":        {},
}

type (
	// Scanner discovers bundles under an ordered set of roots.
	Scanner struct {
		roots          RootSet
		followSymlinks bool
		logger         *log.Logger
	}

	// Option configures a Scanner.
	Option func(*Scanner)

	// Result is the outcome of one scan: the discovered bundles in visit order
	// and any non-fatal diagnostics produced along the way.
	Result struct {
		Entries     []dotwellfile.Bundle
		Diagnostics []Diagnostic
	}

	// walker holds the per-scan traversal state.
	walker struct {
		ctx      context.Context
		s        *Scanner
		visited  map[string]struct{}
		result   *Result
		canceled bool
	}
)

// WithLogger sets the logger used for debug tracing of the walk.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFollowSymlinks makes the scanner descend into symlinked directories.
// Visited directories are tracked by real path either way, so cycles terminate.
func WithFollowSymlinks(follow bool) Option {
	return func(s *Scanner) {
		s.followSymlinks = follow
	}
}

// New creates a Scanner over roots.
func New(roots RootSet, opts ...Option) *Scanner {
	s := &Scanner{
		roots:  append(RootSet(nil), roots...),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roots returns a copy of the scanner's root set.
func (s *Scanner) Roots() RootSet {
	return append(RootSet(nil), s.roots...)
}

// Scan walks every root in order and returns the discovered bundles.
// It never fails: missing roots are skipped, and unreadable directories or
// malformed descriptors only add diagnostics.
func (s *Scanner) Scan(ctx context.Context) Result {
	if ctx == nil {
		ctx = context.Background()
	}

	result := Result{}
	w := &walker{
		ctx:     ctx,
		s:       s,
		visited: make(map[string]struct{}),
		result:  &result,
	}

	for _, root := range s.roots {
		if w.stopped() {
			break
		}
		w.scanRoot(root)
	}

	s.logger.Debug("scan finished", "entries", len(result.Entries), "diagnostics", len(result.Diagnostics))
	return result
}

// IsSkippedDir reports whether the scanner refuses to descend into a directory
// with the given base name.
func IsSkippedDir(name string) bool {
	if strings.HasPrefix(name, hiddenPrefix) {
		return true
	}
	_, skip := skippedDirNames[name]
	return skip
}

func (w *walker) scanRoot(root Root) {
	abs, err := filepath.Abs(root.Path)
	if err != nil {
		w.addDiagnostic(newPathDiagnostic(CodeRootUnavailable, root.Path, err,
			"failed to resolve root %q: %v", root.Path, err))
		return
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			w.s.logger.Debug("root does not exist, skipping", "root", abs)
			return
		}
		w.addDiagnostic(newPathDiagnostic(CodeRootUnavailable, abs, err,
			"cannot access root %s: %v", abs, err))
		return
	}
	if !info.IsDir() {
		w.s.logger.Debug("root is not a directory, skipping", "root", abs)
		return
	}

	w.s.logger.Debug("scanning root", "root", abs, "label", root.Label)
	w.visit(abs, false)
}

// visit processes dir and recurses into its eligible subdirectories.
func (w *walker) visit(dir string, viaSymlink bool) {
	if w.stopped() {
		return
	}

	key := dir
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		key = real
	}
	if _, seen := w.visited[key]; seen {
		if viaSymlink {
			w.addDiagnostic(newPathDiagnostic(CodeSymlinkCycleSkipped, dir, nil,
				"symlinked directory %s resolves to already scanned %s", dir, key))
		} else {
			w.s.logger.Debug("directory already scanned", "dir", dir)
		}
		return
	}
	w.visited[key] = struct{}{}

	w.checkDescriptor(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.addDiagnostic(newPathDiagnostic(CodeDirReadFailed, dir, err,
			"failed to list directory %s: %v", dir, err))
	}

	for _, entry := range entries {
		name := entry.Name()
		if IsSkippedDir(name) {
			continue
		}
		path := filepath.Join(dir, name)

		switch {
		case entry.IsDir():
			w.visit(path, false)
		case entry.Type()&fs.ModeSymlink != 0 && w.s.followSymlinks:
			if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				w.visit(path, true)
			}
		}
	}
}

// checkDescriptor emits at most one bundle for dir, from the most preferred
// descriptor file present.
func (w *walker) checkDescriptor(dir string) {
	var chosen string
	for _, name := range dotwellfile.DescriptorFileNames() {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				w.addDiagnostic(newPathDiagnostic(CodeDescriptorReadFailed, path, err,
					"cannot access descriptor %s: %v", path, err))
			}
			continue
		}
		if info.IsDir() {
			continue
		}
		if chosen != "" {
			w.addDiagnostic(newPathDiagnostic(CodeDescriptorShadowed, path, nil,
				"ignoring %s because %s takes precedence", path, filepath.Base(chosen)))
			continue
		}
		chosen = path
	}

	if chosen == "" {
		return
	}

	d, err := dotwellfile.ParseFile(chosen)
	if err != nil {
		code := CodeDescriptorReadFailed
		if errors.Is(err, dotwellfile.ErrMalformedDescriptor) {
			code = CodeDescriptorMalformed
		}
		w.addDiagnostic(newPathDiagnostic(code, chosen, err, "skipping descriptor: %v", err))
		return
	}

	format, _ := dotwellfile.FormatForFile(chosen)
	w.result.Entries = append(w.result.Entries, dotwellfile.Bundle{
		Descriptor: d,
		Dir:        dir,
		File:       chosen,
		Format:     format,
	})
	w.s.logger.Debug("found bundle", "name", d.Name, "compiler", d.CompilerName(), "dir", dir)
}

func (w *walker) stopped() bool {
	if w.canceled {
		return true
	}
	if err := w.ctx.Err(); err != nil {
		w.canceled = true
		w.addDiagnostic(Diagnostic{
			Severity: SeverityError,
			Code:     CodeScanCanceled,
			Message:  "scan canceled: " + err.Error(),
			Cause:    err,
		})
		return true
	}
	return false
}

func (w *walker) addDiagnostic(d Diagnostic) {
	w.s.logger.Debug("discovery diagnostic", "code", d.Code, "path", d.Path, "message", d.Message)
	w.result.Diagnostics = append(w.result.Diagnostics, d)
}
