// SPDX-License-Identifier: MPL-2.0

// Package discovery locates dotwell bundle descriptors on the filesystem.
//
// A Scanner walks an ordered RootSet depth-first. Each directory contributes at
// most one bundle (dotwell.toml preferred over dotwell.json); hidden directories
// and common build-artifact directories are never entered. Discovery is best
// effort: unreadable directories and malformed descriptors are skipped and
// reported as structured Diagnostics instead of failing the scan.
//
// File organization:
//   - diagnostic.go: Diagnostic, Severity and DiagnosticCode types
//   - roots.go: Root, RootSet and the default root profile
//   - scanner.go: Scanner and the recursive walk
package discovery
