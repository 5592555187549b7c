// SPDX-License-Identifier: MPL-2.0

// Package app holds the interactive session state machine: the current view,
// the entries found by the startup scan, the selection cursor and the last
// install outcome.
//
// Session is presentation-agnostic. The TUI maps key presses onto its
// operations and renders its accessors; tests drive it directly.
package app
