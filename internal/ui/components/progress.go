package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/ui/theme"
)

const minBar = 4

// meter draws a filled/empty bar of the given width for ratio in [0, 1].
func meter(ratio float64, width int) string {
	width = max(width, minBar)
	filled := min(max(int(float64(width)*ratio+0.5), 0), width)
	return lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("━", width-filled))
}

// StepBar shows how far into a run the learner is, for example
// "Exercise 2 of 5 ━━━━━━━───". current is 1-based.
func StepBar(label string, current, total, width int) string {
	ratio := 0.0
	if total > 0 {
		ratio = float64(current) / float64(total)
	}
	prefix := ""
	if label != "" {
		prefix = lipgloss.NewStyle().Foreground(theme.TextDim).Render(label) + "  "
	}
	return prefix + meter(ratio, width-lipgloss.Width(prefix))
}
