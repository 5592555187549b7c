// SPDX-License-Identifier: MPL-2.0

package app

import (
	"errors"
	"fmt"
)

const (
	// ViewHome is the landing view and the root of the navigation tree.
	ViewHome View = iota
	// ViewBrowse lists the discovered entries.
	ViewBrowse
	// ViewPreview shows the selected entry in detail.
	ViewPreview
	// ViewInstalling shows the last install outcome.
	ViewInstalling
)

// ErrInvalidView is the sentinel error wrapped by InvalidViewError.
var ErrInvalidView = errors.New("invalid view")

type (
	// View is a state of the session state machine.
	View int

	// InvalidViewError is returned when a View value is out of range.
	InvalidViewError struct {
		Value View
	}
)

// String returns the view's display name.
func (v View) String() string {
	switch v {
	case ViewHome:
		return "Home"
	case ViewBrowse:
		return "Browse"
	case ViewPreview:
		return "Preview"
	case ViewInstalling:
		return "Installing"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Parent returns the view "back" leads to. Home is its own parent.
func (v View) Parent() View {
	switch v {
	case ViewInstalling:
		return ViewPreview
	case ViewPreview:
		return ViewBrowse
	default:
		return ViewHome
	}
}

// IsValid returns whether the View is one of the defined states.
func (v View) IsValid() (bool, []error) {
	if v < ViewHome || v > ViewInstalling {
		return false, []error{&InvalidViewError{Value: v}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidViewError) Error() string {
	return fmt.Sprintf("invalid view %d", int(e.Value))
}

// Unwrap returns ErrInvalidView for errors.Is() compatibility.
func (e *InvalidViewError) Unwrap() error { return ErrInvalidView }
