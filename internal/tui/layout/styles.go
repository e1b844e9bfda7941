// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	PrimaryColor   = lipgloss.Color("#7C3AED")
	SecondaryColor = lipgloss.Color("#A78BFA")
	AccentColor    = lipgloss.Color("#10B981")
	TextColor      = lipgloss.Color("#F3F4F6")
	MutedColor     = lipgloss.Color("#9CA3AF")
	BorderColor    = lipgloss.Color("#4B5563")
	ErrorColor     = lipgloss.Color("#EF4444")
	WarningColor   = lipgloss.Color("#F59E0B")

	PlayheadColor = lipgloss.Color("#6666FF")
	PitchColor    = lipgloss.Color("#00FFFF")
	MarkerColor   = lipgloss.Color("#F59E0B")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			Align(lipgloss.Left)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	BreadcrumbSeparator = lipgloss.NewStyle().
				Foreground(BorderColor).
				SetString(" > ")

	// Status/Stats styles
	StatusStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	ContentStyle = lipgloss.NewStyle().
			Align(lipgloss.Left, lipgloss.Top)

	// Footer styles
	FooterStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1).
			PaddingRight(1)

	HelpTextStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	// Annotation styles
	PlayheadStyle = lipgloss.NewStyle().Foreground(PlayheadColor).Bold(true)
	PitchStyle    = lipgloss.NewStyle().Foreground(PitchColor)
	MarkerStyle   = lipgloss.NewStyle().Foreground(MarkerColor)
	SelectedStyle = lipgloss.NewStyle().Foreground(TextColor).Background(PrimaryColor).Bold(true)
	PendingStyle  = lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
)

// Shade maps an intensity in [0, 1] onto the 24-step xterm grayscale ramp,
// dark for loud, the way Praat draws spectrograms.
func Shade(v float64) lipgloss.Color {
	v = math.Min(math.Max(v, 0), 1)
	step := 23 - int(math.Round(v*23))
	return lipgloss.Color(strconv.Itoa(232 + step))
}

// GetDivider returns a horizontal divider of the specified width
func GetDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(BorderColor).
		Render(strings.Repeat("─", width))
}
