package app

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/router"
	"github.com/abhisek/grammarflow/internal/screen"
	"github.com/abhisek/grammarflow/internal/screens"
	"github.com/abhisek/grammarflow/internal/screens/topics"
	"github.com/abhisek/grammarflow/internal/screens/welcome"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/speech"
	"github.com/abhisek/grammarflow/internal/ui/layout"
)

// Options configures the terminal app.
type Options struct {
	Ctx     context.Context
	Session *session.Controller

	// Speech is optional.
	Speech *speech.Service

	// SkipWelcome starts directly at the topic menu.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	session *session.Controller
	ctx     context.Context
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	if opts.Session == nil {
		opts.Session = session.New(session.Config{})
	}

	deps := screens.Deps{
		Ctx:     opts.Ctx,
		Session: opts.Session,
		Speech:  opts.Speech,
	}
	deps.Home = func() screen.Screen { return topics.New(deps) }

	var first screen.Screen
	if opts.SkipWelcome {
		first = deps.Home()
	} else {
		first = welcome.New(opts.Ctx, deps.Home)
	}

	return AppModel{
		router:  router.New(first),
		session: opts.Session,
		ctx:     opts.Ctx,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			return m, m.back()
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// back gives the active screen a chance to handle Esc, then pops it.
func (m AppModel) back() tea.Cmd {
	var cmd tea.Cmd
	if h, ok := m.router.Active().(screen.BackHandler); ok {
		var handled bool
		cmd, handled = h.Back()
		if handled {
			return cmd
		}
	}
	if m.router.Depth() <= 1 {
		return cmd
	}
	pop := router.PopCmd()
	if cmd == nil {
		return pop
	}
	return tea.Sequence(cmd, pop)
}

// status renders the run's position and score for the header.
func (m AppModel) status() string {
	st := m.session.Snapshot()
	if len(st.Exercises) == 0 {
		return ""
	}
	current, total := st.Progress()
	return fmt.Sprintf("%d/%d  ★ %d", current, total, st.Score)
}

// breadcrumb shows where the user is, at most two screens deep.
func (m AppModel) breadcrumb() string {
	trail := m.router.Trail()
	if len(trail) > 2 {
		trail = trail[len(trail)-2:]
	}
	return strings.Join(trail, " › ")
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		msg := i18n.Td(m.ctx, "TerminalTooSmall", map[string]any{
			"MinWidth": layout.MinWidth, "MinHeight": layout.MinHeight,
			"Width": m.width, "Height": m.height,
		})
		v.SetContent(layout.RenderMinSizeMessage(msg, m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(i18n.T(m.ctx, "AppTitle"), m.breadcrumb(), m.status(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(opts.Ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal app: %w", err)
	}
	return nil
}
