// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aplus-courses/coursekit/pkg/course"
)

// Color palette shared by all CLI output, tuned for dark terminal backgrounds.
const (
	// ColorPrimary is purple: titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray: subtitles and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green: installed components and completed steps.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red: failures and invalidated components.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber: warnings and installs in progress.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue: component names, commands and links.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for component names, commands and code.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// nameColumnStyle pads component names in status listings.
	nameColumnStyle = CmdStyle.Width(24)
)

// stateStyle picks the style a component state is rendered with.
func stateStyle(s course.State) lipgloss.Style {
	switch s {
	case course.StateInstalled:
		return SuccessStyle
	case course.StateInstalling:
		return WarningStyle
	case course.StateError:
		return ErrorStyle
	default:
		return SubtitleStyle
	}
}
