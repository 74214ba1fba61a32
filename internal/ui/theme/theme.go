// Package theme holds the palette and the shared lipgloss styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Ink on slate with an indigo accent.
var (
	Primary   = lipgloss.Color("#6366F1")
	Secondary = lipgloss.Color("#38BDF8")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#10B981")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// TopicColor parses a topic's "#RRGGBB" color, falling back to Primary.
func TopicColor(hex string) color.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return Primary
	}
	return lipgloss.Color(hex)
}

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	Title = fg(Primary).Bold(true).Align(lipgloss.Center)
	Body  = fg(Text)
	Hint  = fg(TextDim).Italic(true)

	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Correct    = fg(Success).Bold(true)
	Incorrect  = fg(Error).Bold(true)

	ButtonActive   = fg(Text).Background(Primary).Bold(true).Padding(0, 2)
	ButtonInactive = fg(TextDim).Padding(0, 2).
			Border(lipgloss.RoundedBorder()).BorderForeground(Border)

	// Chips are the word-bank tiles of scrambled-sentence exercises.
	Chip         = fg(Text).Background(BgCard).Padding(0, 1)
	ChipSelected = fg(Text).Background(Primary).Bold(true).Padding(0, 1)
)
