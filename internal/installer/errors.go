// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"errors"
	"fmt"

	"github.com/dotwell/dotwell/internal/issue"
)

// ErrProcessLaunchFailed is the sentinel error wrapped by ProcessLaunchError.
var ErrProcessLaunchFailed = errors.New("failed to launch install process")

// ProcessLaunchError is returned when the build tool could not be started at
// all (missing executable, unreadable directory, ...). A child that starts and
// exits non-zero is not a launch error; it yields an unsuccessful Outcome.
type ProcessLaunchError struct {
	Invocation Invocation
	Cause      error
}

// Error implements the error interface.
func (e *ProcessLaunchError) Error() string {
	return fmt.Sprintf("failed to launch %q in %s: %v", e.Invocation.Name, e.Invocation.Dir, e.Cause)
}

// Is reports ErrProcessLaunchFailed as matching for errors.Is.
func (e *ProcessLaunchError) Is(target error) bool { return target == ErrProcessLaunchFailed }

// Unwrap returns the underlying cause.
func (e *ProcessLaunchError) Unwrap() error { return e.Cause }

// Actionable converts the launch error into a user-facing error with
// suggestions specific to the tool that could not be started.
func (e *ProcessLaunchError) Actionable(bundleName string) error {
	ctx := issue.NewErrorContext().
		WithOperation("install " + bundleName).
		WithResource(e.Invocation.Dir).
		WithIssue(issue.InstallerNotFoundId).
		Wrap(e)

	switch {
	case e.Invocation.Script:
		ctx.WithSuggestion(fmt.Sprintf("Install %s or set install.shell to another shell", e.Invocation.Name)).
			WithSuggestion("Set install.virtual_shell to run install.sh with the built-in shell")
	case e.Invocation.Name == "nix-build":
		ctx.WithSuggestion("Install Nix and make sure nix-build is on your PATH")
	default:
		ctx.WithSuggestion(fmt.Sprintf("Install %s and make sure it is on your PATH", e.Invocation.Name))
	}

	return ctx.BuildError()
}

// newLaunchError wraps cause unless it already is a ProcessLaunchError.
func newLaunchError(inv Invocation, cause error) error {
	var existing *ProcessLaunchError
	if errors.As(cause, &existing) {
		return cause
	}
	return &ProcessLaunchError{Invocation: inv, Cause: cause}
}
