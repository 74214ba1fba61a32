// Package summary shows the result of a finished run.
package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/router"
	"github.com/abhisek/grammarflow/internal/screen"
	"github.com/abhisek/grammarflow/internal/screens"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/ui/components"
	"github.com/abhisek/grammarflow/internal/ui/layout"
	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// SummaryScreen displays the completion summary of a run.
type SummaryScreen struct {
	deps    screens.Deps
	summary session.Summary
	left    bool
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.BackHandler = (*SummaryScreen)(nil)

// New captures the controller's summary. The run is restarted when the
// learner leaves the screen.
func New(deps screens.Deps) *SummaryScreen {
	return &SummaryScreen{deps: deps, summary: deps.Session.Summary()}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return i18n.T(s.deps.Context(), "SummaryHeadline")
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: i18n.T(s.deps.Context(), "ChooseNewTopic")},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Back behaves like choosing a new topic.
func (s *SummaryScreen) Back() (tea.Cmd, bool) {
	return s.leave(), true
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "space", " ":
			return s, s.leave()
		}
	}
	return s, nil
}

// leave restarts the run and returns to the topic menu.
func (s *SummaryScreen) leave() tea.Cmd {
	if s.left {
		return nil
	}
	s.left = true
	s.deps.Session.Restart()
	if s.deps.Home == nil {
		return router.PopCmd()
	}
	next := s.deps.Home()
	return router.ResetCmd(next)
}

func (s *SummaryScreen) View(width, height int) string {
	ctx := s.deps.Context()
	sum := s.summary
	cw := components.ContentWidth(width)

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render("🏆  " + i18n.T(ctx, "SummaryHeadline")))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(scoreColor(sum.Percentage)).Bold(true).
		Render(fmt.Sprintf("%d%%", sum.Percentage)))
	b.WriteString("   ")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d / %d · %s", sum.Correct, sum.Total, sum.Difficulty.Label())))
	b.WriteString("\n\n")

	b.WriteString(components.StepBar("", sum.Correct, sum.Total, cw-6))
	b.WriteString("\n\n")

	body := i18n.Td(ctx, "SummaryBody", map[string]any{
		"Score": sum.Correct,
		"Topic": sum.Topic.Name,
	})
	b.WriteString(theme.Body.Width(cw - 6).Render(body))
	b.WriteString("\n\n")

	b.WriteString(components.Button(i18n.T(ctx, "ChooseNewTopic"), true))

	return components.Center(components.Card(b.String(), cw, scoreColor(sum.Percentage)), width, height)
}

// scoreColor returns the theme color for a completion percentage.
func scoreColor(pct int) color.Color {
	switch {
	case pct >= 80:
		return theme.Success
	case pct >= 50:
		return theme.Accent
	default:
		return theme.Error
	}
}
