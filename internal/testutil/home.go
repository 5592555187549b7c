// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetHomeDir points the home directory at dir for the duration of the test
// and returns a cleanup function that restores the original value.
//
// Platform handling:
//   - Windows: Sets USERPROFILE and APPDATA
//   - Linux/macOS: Sets HOME and XDG_CONFIG_HOME (dir/.config)
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    tmpDir := t.TempDir()
//	    t.Cleanup(testutil.SetHomeDir(t, tmpDir))
//	}
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	var cleanups []func()
	switch runtime.GOOS {
	case "windows":
		cleanups = append(cleanups,
			MustSetenv(t, "USERPROFILE", dir),
			MustSetenv(t, "APPDATA", filepath.Join(dir, "AppData", "Roaming")),
		)
	default:
		cleanups = append(cleanups,
			MustSetenv(t, "HOME", dir),
			MustSetenv(t, "XDG_CONFIG_HOME", filepath.Join(dir, ".config")),
		)
	}

	return func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
}
