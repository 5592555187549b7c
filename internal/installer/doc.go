// SPDX-License-Identifier: MPL-2.0

// Package installer turns a discovered bundle into a build-tool invocation and
// runs it in the bundle's directory.
//
// Plan is the pure dispatch rule from compiler variant to command line. A
// Runner executes the resulting Invocation: ExecRunner spawns a real child
// process, VirtualRunner interprets install.sh scripts with the embedded
// mvdan.cc/sh interpreter. Installer ties the two together and produces an
// Outcome whose Succeeded flag mirrors the child's exit status exactly.
package installer
