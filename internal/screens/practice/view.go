package practice

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/ui/components"
	"github.com/abhisek/grammarflow/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *PracticeScreen) View(width, height int) string {
	ctrl := s.deps.Session
	cw := components.ContentWidth(width)

	var body string
	switch {
	case ctrl.Loading():
		body = s.renderLoading(cw)
	case ctrl.Err() != nil:
		body = s.renderError(cw)
	default:
		v := ctrl.View()
		if _, ok := v.State.Current(); !ok {
			body = theme.Hint.Render(s.note)
			break
		}
		body = s.renderExercise(v, cw)
	}
	return components.Center(body, width, height)
}

func (s *PracticeScreen) renderLoading(cw int) string {
	ctx := s.deps.Context()
	frame := lipgloss.NewStyle().Foreground(theme.Primary).
		Render(spinnerFrames[s.spin%len(spinnerFrames)])

	content := frame + "  " + theme.Body.Bold(true).Render(i18n.T(ctx, "LoadingTitle")) +
		"\n\n" + theme.Hint.Render(i18n.T(ctx, "LoadingSubtitle"))
	return components.Card(content, cw, nil)
}

func (s *PracticeScreen) renderError(cw int) string {
	ctx := s.deps.Context()
	msg := i18n.T(ctx, "FetchError")

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("⚠  " + msg))
	b.WriteString("\n\n")
	b.WriteString(s.errMenu.View())
	return components.Card(b.String(), cw, theme.Error)
}

func (s *PracticeScreen) renderExercise(v session.View, cw int) string {
	ctx := s.deps.Context()
	ex, _ := v.State.Current()
	current, total := v.State.Progress()
	inner := cw - 6

	var b strings.Builder

	label := i18n.Td(ctx, "ProgressLabel", map[string]any{"Current": current, "Total": total})
	b.WriteString(components.StepBar(label, current, total, inner))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.ToUpper(ex.Kind.Label())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(inner).Render(ex.Question))
	b.WriteString("\n")
	if ex.TargetSentence != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Italic(true).Width(inner).
			Render("“" + ex.TargetSentence + "”"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	revealed := v.Feedback != nil
	switch ex.Kind {
	case grammar.KindMultipleChoice:
		b.WriteString(s.mc.View(ex.Answer, revealed))
	case grammar.KindScrambledSentence:
		b.WriteString(s.words.View(inner))
		b.WriteString("\n")
	default:
		b.WriteString(s.text.View())
		b.WriteString("\n")
	}

	if revealed {
		b.WriteString("\n")
		b.WriteString(renderFeedback(ctx, *v.Feedback, inner))
	} else {
		b.WriteString("\n")
		b.WriteString(components.Button(i18n.T(ctx, "SubmitButton"), v.CanSubmit))
	}

	if s.speaking {
		b.WriteString("\n\n" + theme.Hint.Render("♪ playing..."))
	} else if s.note != "" {
		b.WriteString("\n\n" + theme.Hint.Render(s.note))
	}

	accent := theme.Border
	if revealed {
		accent = theme.Error
		if v.Feedback.Correct {
			accent = theme.Success
		}
	}
	return components.Card(b.String(), cw, accent)
}
