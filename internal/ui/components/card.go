package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// ContentWidth returns the inner width shared by every card on a screen
// so that stacked boxes line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded border at content width cw. A nil
// accent uses the default border color.
func Card(content string, cw int, accent color.Color) string {
	if accent == nil {
		accent = theme.Border
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(cw).
		Padding(1, 2).
		Render(content)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
