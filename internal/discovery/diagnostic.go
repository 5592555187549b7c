// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"
)

const (
	// CodeRootUnavailable reports a default root that could not be resolved or stat'ed.
	CodeRootUnavailable DiagnosticCode = "root_unavailable"
	// CodeDirReadFailed reports a directory whose entries could not be listed.
	CodeDirReadFailed DiagnosticCode = "dir_read_failed"
	// CodeDescriptorReadFailed reports a descriptor that exists but could not be read.
	CodeDescriptorReadFailed DiagnosticCode = "descriptor_read_failed"
	// CodeDescriptorMalformed reports a descriptor that failed schema validation.
	CodeDescriptorMalformed DiagnosticCode = "descriptor_malformed"
	// CodeDescriptorShadowed reports a lower-preference descriptor ignored in favor of another.
	CodeDescriptorShadowed DiagnosticCode = "descriptor_shadowed"
	// CodeSymlinkCycleSkipped reports a symlinked directory that resolves to an already visited one.
	CodeSymlinkCycleSkipped DiagnosticCode = "symlink_cycle_skipped"
	// CodeScanCanceled reports a scan stopped early by context cancellation.
	CodeScanCanceled DiagnosticCode = "scan_canceled"
)

var (
	// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is the sentinel error wrapped by InvalidDiagnosticCodeError.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// InvalidSeverityError is returned when a Severity value is not recognized.
	InvalidSeverityError struct {
		Value Severity
	}

	// InvalidDiagnosticCodeError is returned when a DiagnosticCode value is not recognized.
	InvalidDiagnosticCodeError struct {
		Value DiagnosticCode
	}

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "descriptor_malformed").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// NewDiagnostic creates a Diagnostic without path or cause.
func NewDiagnostic(severity Severity, code DiagnosticCode, message string) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message}
}

// newPathDiagnostic creates a warning Diagnostic tied to a path and cause.
func newPathDiagnostic(code DiagnosticCode, path string, cause error, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Path:     path,
		Cause:    cause,
	}
}

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// IsValid returns whether the Severity is one of the defined levels.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

// String returns the string representation of the DiagnosticCode.
func (c DiagnosticCode) String() string { return string(c) }

// IsValid returns whether the DiagnosticCode is one of the defined codes.
func (c DiagnosticCode) IsValid() (bool, []error) {
	switch c {
	case CodeRootUnavailable, CodeDirReadFailed, CodeDescriptorReadFailed,
		CodeDescriptorMalformed, CodeDescriptorShadowed, CodeSymlinkCycleSkipped,
		CodeScanCanceled:
		return true, nil
	default:
		return false, []error{&InvalidDiagnosticCodeError{Value: c}}
	}
}

// Error implements the error interface for InvalidSeverityError.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid diagnostic severity %q (valid: warning, error)", e.Value)
}

// Unwrap returns ErrInvalidSeverity for errors.Is() compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// Error implements the error interface for InvalidDiagnosticCodeError.
func (e *InvalidDiagnosticCodeError) Error() string {
	return fmt.Sprintf("invalid diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidDiagnosticCode for errors.Is() compatibility.
func (e *InvalidDiagnosticCodeError) Unwrap() error { return ErrInvalidDiagnosticCode }
