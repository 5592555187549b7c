// SPDX-License-Identifier: MPL-2.0

// Package tui is the interactive front end of dotwell.
//
// The Bubble Tea model in this package renders an app.Session and turns key
// presses into session transitions. Installs run as a background command with
// a cancellable context; their outcome is fed back into the session through a
// message, so the session itself is only ever touched from Update.
package tui
