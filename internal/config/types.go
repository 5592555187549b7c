// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dotwell/dotwell/internal/installer"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidInstallConfig is the sentinel error wrapped by InvalidInstallConfigError.
	ErrInvalidInstallConfig = errors.New("invalid install config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the TUI and markdown palette.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidInstallConfigError is returned when InstallConfig has invalid fields.
	InvalidInstallConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when Config has invalid fields.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the effective dotwell configuration.
	Config struct {
		// UI configures presentation.
		UI UIConfig `json:"ui" mapstructure:"ui" yaml:"ui"`
		// Install configures how bundles are installed.
		Install InstallConfig `json:"install" mapstructure:"install" yaml:"install"`
		// Scan configures discovery.
		Scan ScanConfig `json:"scan" mapstructure:"scan" yaml:"scan"`
	}

	// UIConfig configures presentation.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light").
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" yaml:"color_scheme"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose" yaml:"verbose"`
	}

	// InstallConfig configures how bundles are installed.
	InstallConfig struct {
		// Shell interprets install.sh scripts.
		Shell string `json:"shell" mapstructure:"shell" yaml:"shell"`
		// VirtualShell runs install.sh in the built-in interpreter.
		VirtualShell bool `json:"virtual_shell" mapstructure:"virtual_shell" yaml:"virtual_shell"`
		// Timeout bounds each install; zero means no limit.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout" yaml:"timeout"`
	}

	// ScanConfig configures discovery.
	ScanConfig struct {
		// FollowSymlinks descends into symlinked directories.
		FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the InstallConfig is usable.
func (c InstallConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Shell) == "" {
		errs = append(errs, errors.New("install.shell must not be empty"))
	} else if strings.ContainsAny(c.Shell, " \t\n") {
		errs = append(errs, fmt.Errorf("install.shell %q must be a single executable name", c.Shell))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("install.timeout %s must not be negative", c.Timeout))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidInstallConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidInstallConfigError) Error() string {
	return fmt.Sprintf("invalid install config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidInstallConfig followed by the field errors.
func (e *InvalidInstallConfigError) Unwrap() []error {
	return append([]error{ErrInvalidInstallConfig}, e.FieldErrors...)
}

// IsValid returns whether every section of the Config is valid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Install.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// also matches the sentinel of each invalid field.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Install: InstallConfig{
			Shell:        installer.DefaultShell,
			VirtualShell: false,
			Timeout:      0,
		},
		Scan: ScanConfig{
			FollowSymlinks: false,
		},
	}
}
