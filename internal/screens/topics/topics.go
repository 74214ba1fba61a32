// Package topics is the grammar topic menu, the home of the app.
package topics

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/router"
	"github.com/abhisek/grammarflow/internal/screen"
	"github.com/abhisek/grammarflow/internal/screens"
	"github.com/abhisek/grammarflow/internal/screens/difficulty"
	"github.com/abhisek/grammarflow/internal/ui/components"
	"github.com/abhisek/grammarflow/internal/ui/layout"
	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// TopicsScreen lists the grammar topics.
type TopicsScreen struct {
	deps   screens.Deps
	topics []grammar.Topic
	menu   components.Menu
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New builds the topic menu from the default catalog.
func New(deps screens.Deps) *TopicsScreen {
	s := &TopicsScreen{deps: deps, topics: grammar.AllTopics()}

	items := make([]components.MenuItem, 0, len(s.topics))
	for _, t := range s.topics {
		items = append(items, components.MenuItem{
			Label:       t.Icon + "  " + t.Name,
			Description: t.Description,
			Accent:      theme.TopicColor(t.Color),
			Action:      s.choose(t),
		})
	}
	s.menu = components.NewMenu(items)
	return s
}

func (s *TopicsScreen) choose(t grammar.Topic) func() tea.Cmd {
	return func() tea.Cmd {
		s.deps.Session.SelectTopic(t)
		next := difficulty.New(s.deps)
		return router.PushCmd(next)
	}
}

func (s *TopicsScreen) Init() tea.Cmd { return nil }

func (s *TopicsScreen) Title() string {
	return i18n.T(s.deps.Context(), "ChooseTopic")
}

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *TopicsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var accent = theme.Primary
	if i := s.menu.Selected; i >= 0 && i < len(s.topics) {
		accent = theme.TopicColor(s.topics[i].Color)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(i18n.T(s.deps.Context(), "ChooseTopic")))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())

	return components.Center(components.Card(b.String(), cw, accent), width, height)
}
