// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
)

// SystemConfigPath is the system-wide configuration root included in the
// default profile when it exists.
const SystemConfigPath = "/etc/nixos"

type (
	// Root is a directory the scanner descends from.
	Root struct {
		// Path is the directory to scan. Relative paths are resolved against
		// the working directory at scan time.
		Path string
		// Label is a short human-readable name (e.g., "home dotfiles").
		Label string
	}

	// RootSet is an ordered list of roots. Entries are reported in root order.
	RootSet []Root

	// rootProbe abstracts the process environment used to build the default profile.
	rootProbe struct {
		userConfigDir    func() (string, error)
		userHomeDir      func() (string, error)
		getwd            func() (string, error)
		systemConfigPath string
	}
)

// DefaultRoots returns the default root profile, in order: the user config
// directory, ~/dotfiles, ~/.dotfiles, SystemConfigPath (only when it exists)
// and the working directory. Locations that cannot be determined are left out
// and reported as diagnostics.
func DefaultRoots() (RootSet, []Diagnostic) {
	return defaultRootsFrom(rootProbe{
		userConfigDir:    os.UserConfigDir,
		userHomeDir:      os.UserHomeDir,
		getwd:            os.Getwd,
		systemConfigPath: SystemConfigPath,
	})
}

// NewRootSet builds a RootSet from plain paths, labeling each with its base name.
func NewRootSet(paths ...string) RootSet {
	roots := make(RootSet, 0, len(paths))
	for _, p := range paths {
		roots = append(roots, Root{Path: p, Label: filepath.Base(p)})
	}
	return roots
}

// Paths returns the root paths in order.
func (rs RootSet) Paths() []string {
	paths := make([]string, 0, len(rs))
	for _, r := range rs {
		paths = append(paths, r.Path)
	}
	return paths
}

func defaultRootsFrom(p rootProbe) (RootSet, []Diagnostic) {
	var (
		roots RootSet
		diags []Diagnostic
	)

	if dir, err := p.userConfigDir(); err == nil {
		roots = append(roots, Root{Path: dir, Label: "user config"})
	} else {
		diags = append(diags, newPathDiagnostic(CodeRootUnavailable, "", err,
			"cannot determine user config directory: %v", err))
	}

	if home, err := p.userHomeDir(); err == nil {
		roots = append(roots,
			Root{Path: filepath.Join(home, "dotfiles"), Label: "home dotfiles"},
			Root{Path: filepath.Join(home, ".dotfiles"), Label: "hidden home dotfiles"},
		)
	} else {
		diags = append(diags, newPathDiagnostic(CodeRootUnavailable, "", err,
			"cannot determine home directory: %v", err))
	}

	if p.systemConfigPath != "" {
		if info, err := os.Stat(p.systemConfigPath); err == nil && info.IsDir() {
			roots = append(roots, Root{Path: p.systemConfigPath, Label: "system config"})
		}
	}

	if wd, err := p.getwd(); err == nil {
		roots = append(roots, Root{Path: wd, Label: "working directory"})
	} else {
		diags = append(diags, newPathDiagnostic(CodeRootUnavailable, "", err,
			"cannot determine working directory: %v", err))
	}

	return roots, diags
}
