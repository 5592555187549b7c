// SPDX-License-Identifier: MPL-2.0

package app

import (
	"context"
	"slices"

	"github.com/dotwell/dotwell/internal/discovery"
	"github.com/dotwell/dotwell/internal/installer"
	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

type (
	// Scanner discovers bundles. *discovery.Scanner implements it.
	Scanner interface {
		Scan(ctx context.Context) discovery.Result
	}

	// Installer runs one bundle install. *installer.Installer implements it.
	Installer interface {
		Install(ctx context.Context, b dotwellfile.Bundle) (installer.Outcome, error)
	}

	// Session is the interactive state machine. It is not safe for
	// concurrent use; drive it from a single goroutine.
	Session struct {
		view        View
		entries     []dotwellfile.Bundle
		selected    int
		lastOutcome *installer.Outcome
		diagnostics []discovery.Diagnostic
		installer   Installer
	}
)

// NewSession scans once, synchronously, and starts in ViewHome with the
// first entry selected.
func NewSession(ctx context.Context, scanner Scanner, inst Installer) *Session {
	result := scanner.Scan(ctx)
	return &Session{
		view:        ViewHome,
		entries:     result.Entries,
		diagnostics: result.Diagnostics,
		installer:   inst,
	}
}

// View returns the current view.
func (s *Session) View() View { return s.view }

// Entries returns the discovered entries in scan order.
func (s *Session) Entries() []dotwellfile.Bundle { return slices.Clone(s.entries) }

// SelectedIndex returns the cursor position. It is always 0 when there are
// no entries.
func (s *Session) SelectedIndex() int { return s.selected }

// Selected returns the entry under the cursor.
func (s *Session) Selected() (dotwellfile.Bundle, bool) {
	if len(s.entries) == 0 {
		return dotwellfile.Bundle{}, false
	}
	return s.entries[s.selected], true
}

// LastOutcome returns the most recent install outcome, or nil.
func (s *Session) LastOutcome() *installer.Outcome {
	if s.lastOutcome == nil {
		return nil
	}
	o := *s.lastOutcome
	return &o
}

// Installer returns the installer the session runs installs with.
func (s *Session) Installer() Installer { return s.installer }

// Diagnostics returns the non-fatal diagnostics of the startup scan.
func (s *Session) Diagnostics() []discovery.Diagnostic { return slices.Clone(s.diagnostics) }

// Browse moves Home to Browse. It is a no-op in any other view.
func (s *Session) Browse() {
	if s.view == ViewHome {
		s.view = ViewBrowse
	}
}

// Back moves to the current view's parent.
func (s *Session) Back() {
	s.view = s.view.Parent()
}

// Open moves Browse to Preview when there is something to preview.
func (s *Session) Open() {
	if s.view == ViewBrowse && len(s.entries) > 0 {
		s.view = ViewPreview
	}
}

// Next moves the cursor down in Browse, wrapping to the first entry.
func (s *Session) Next() {
	if s.view != ViewBrowse || len(s.entries) == 0 {
		return
	}
	s.selected = (s.selected + 1) % len(s.entries)
}

// Previous moves the cursor up in Browse, wrapping to the last entry.
func (s *Session) Previous() {
	if s.view != ViewBrowse || len(s.entries) == 0 {
		return
	}
	s.selected = (s.selected - 1 + len(s.entries)) % len(s.entries)
}

// InstallTarget returns the entry an install would run against, and whether
// install is permitted from the current view.
func (s *Session) InstallTarget() (dotwellfile.Bundle, bool) {
	if s.view != ViewBrowse && s.view != ViewPreview {
		return dotwellfile.Bundle{}, false
	}
	return s.Selected()
}

// Install runs the selected entry's installer and blocks until it finishes.
// The outcome is recorded and the session moves to Installing whether or not
// the install succeeded. When the process cannot be launched, the error is
// returned and neither the view nor the last outcome changes. Install is a
// no-op outside Browse and Preview, or when there are no entries.
func (s *Session) Install(ctx context.Context) error {
	target, ok := s.InstallTarget()
	if !ok {
		return nil
	}

	outcome, err := s.installer.Install(ctx, target)
	if err != nil {
		return err
	}

	s.RecordOutcome(outcome)
	return nil
}

// RecordOutcome stores an install outcome produced outside Install and moves
// to Installing.
func (s *Session) RecordOutcome(outcome installer.Outcome) {
	s.lastOutcome = &outcome
	s.view = ViewInstalling
}
