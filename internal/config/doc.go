// SPDX-License-Identifier: MPL-2.0

// Package config handles dotwell configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/dotwell/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/dotwell/config.cue on macOS,
// %APPDATA%\dotwell\config.cue on Windows), or from the file given with --config.
// A missing file is not an error: every key has a built-in default. DOTWELL_*
// environment variables override file values (e.g. DOTWELL_INSTALL_SHELL=zsh).
//
// Files are validated against an embedded CUE schema (config_schema.cue) before they
// are merged, so typos and wrong types are reported with the offending field path.
package config
