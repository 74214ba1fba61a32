package components

import "github.com/abhisek/grammarflow/internal/ui/theme"

// Button renders a call-to-action label. Inactive buttons are dimmed and
// show no marker, e.g. "Check" before an answer is given.
func Button(label string, active bool) string {
	if active {
		return theme.ButtonActive.Render("▸ " + label + "  ⏎")
	}
	return theme.ButtonInactive.Render("  " + label)
}
