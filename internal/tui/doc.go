// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts coursekit shows during
// installs. It wraps charmbracelet/huh and falls back to accessible,
// line-based prompts when stdin is not a terminal.
package tui
