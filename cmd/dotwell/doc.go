// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for dotwell.
//
// This package implements the Cobra command hierarchy for the dotwell CLI:
// the root command (interactive browser or list mode), non-interactive
// install, descriptor scaffolding and configuration inspection.
package cmd
