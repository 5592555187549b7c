// SPDX-License-Identifier: MPL-2.0

// Package dotwellfile provides types, parsing and encoding for dotwell bundle descriptors.
//
// A descriptor (dotwell.toml or dotwell.json) declares a bundle's metadata and the
// compiler variant used to install it. Both encodings decode into the same in-memory
// Descriptor; the compiler is a closed sum type with one case per supported tool.
package dotwellfile
