// Package output renders user-facing terminal output.
//
// Diagnostics go through pkg/logging on stderr; everything a user is meant to
// read or pipe goes through a Renderer. Styling is applied with lipgloss and
// is switched off when output.color is "never", when NO_COLOR is set, or in
// "auto" mode when the writer is not a terminal.
package output
