package practice

import (
	"context"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/ui/components"
	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// renderFeedback renders the verdict, the answer and the grammar rule.
func renderFeedback(ctx context.Context, fb session.Feedback, width int) string {
	heading, style := "FeedbackHeadingIncorrect", theme.Incorrect
	if fb.Correct {
		heading, style = "FeedbackHeadingCorrect", theme.Correct
	}

	var b strings.Builder
	b.WriteString(style.Render(i18n.T(ctx, heading)))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(width).Render(i18n.Feedback(ctx, fb.Correct, fb.Answer)))
	b.WriteString("\n\n")
	if fb.Explanation != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(width).
			Render(i18n.Td(ctx, "FeedbackRule", map[string]any{"Explanation": fb.Explanation})))
		b.WriteString("\n\n")
	}
	b.WriteString(components.Button(i18n.T(ctx, "ContinueButton"), true))
	return b.String()
}
