package layout

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// Smallest terminal the practice card fits in.
const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage centers msg in the full terminal.
func RenderMinSizeMessage(msg string, width, height int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(msg)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader renders the application header bar: app name on the left,
// title centered, status (progress and score, may be empty) on the right.
func RenderHeader(appName, title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  " + appName)
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status + " ")

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return bar(width).Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter renders key hints left to right, dropping the ones that
// no longer fit the width.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString("  ")
	used := 2
	for i, h := range hints {
		part := key.Render(h.Key) + " " + desc.Render(h.Description)
		if i > 0 {
			part = "   " + part
		}
		if used+lipgloss.Width(part) > width-4 {
			break
		}
		b.WriteString(part)
		used += lipgloss.Width(part)
	}
	return bar(width).Render(b.String())
}

// RenderFrame stacks header, content and footer; content fills the
// height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
