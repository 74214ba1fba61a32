// Package difficulty is the level picker shown after a topic is chosen.
package difficulty

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/router"
	"github.com/abhisek/grammarflow/internal/screen"
	"github.com/abhisek/grammarflow/internal/screens"
	"github.com/abhisek/grammarflow/internal/screens/practice"
	"github.com/abhisek/grammarflow/internal/ui/components"
	"github.com/abhisek/grammarflow/internal/ui/layout"
	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// DifficultyScreen lets the learner pick a level for the selected topic.
type DifficultyScreen struct {
	deps  screens.Deps
	topic grammar.Topic
	menu  components.Menu
}

var _ screen.Screen = (*DifficultyScreen)(nil)
var _ screen.BackHandler = (*DifficultyScreen)(nil)

// New creates the picker for the controller's current topic.
func New(deps screens.Deps) *DifficultyScreen {
	s := &DifficultyScreen{deps: deps}
	if t := deps.Session.Snapshot().Topic; t != nil {
		s.topic = *t
	}

	var items []components.MenuItem
	for _, d := range grammar.AllDifficulties() {
		items = append(items, components.MenuItem{
			Label:       d.Label(),
			Description: d.Blurb(),
			Action:      s.start(d),
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *DifficultyScreen) start(d grammar.Difficulty) func() tea.Cmd {
	return func() tea.Cmd {
		next := practice.New(s.deps, d)
		return router.PushCmd(next)
	}
}

func (s *DifficultyScreen) Init() tea.Cmd { return nil }

func (s *DifficultyScreen) Title() string { return s.topic.Name }

// Back clears the topic before the screen is popped.
func (s *DifficultyScreen) Back() (tea.Cmd, bool) {
	s.deps.Session.BackToTopics()
	return nil, false
}

func (s *DifficultyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Topics"},
	}
}

func (s *DifficultyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *DifficultyScreen) View(width, height int) string {
	ctx := s.deps.Context()
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TopicColor(s.topic.Color)).
		Bold(true).
		Render(s.topic.Icon + "  " + s.topic.Name))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(s.topic.Description))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render(i18n.T(ctx, "ChooseDifficulty")))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())

	return components.Center(components.Card(b.String(), cw, theme.TopicColor(s.topic.Color)), width, height)
}
