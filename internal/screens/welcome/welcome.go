package welcome

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/router"
	"github.com/abhisek/grammarflow/internal/screen"
	"github.com/abhisek/grammarflow/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const bookArt = `   _______  _______
  /       \/       \
 |  a  an  ||  the  |
 |  is are || was   |
 |_________||_______|
  \_______/\_______/`

var sparkleFrames = []string{"✦", "✧"}

type tickMsg time.Time

// WelcomeScreen shows a short splash before handing over to the topic menu.
type WelcomeScreen struct {
	ctx          context.Context
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next() on the
// first key press.
func New(ctx context.Context, next func() screen.Screen) *WelcomeScreen {
	if ctx == nil {
		ctx = context.Background()
	}
	return &WelcomeScreen{ctx: ctx, next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		if w.transitioned {
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.ReplaceCmd(w.next())
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed < phase2End {
		art := lipgloss.NewStyle().Foreground(theme.Primary).Render(bookArt)
		if w.elapsed >= phase1End {
			sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
			s := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
			lines := strings.Split(art, "\n")
			lines[0] = s + " " + lines[0]
			lines[len(lines)-1] = lines[len(lines)-1] + " " + s
			art = strings.Join(lines, "\n")
		}
		sections = append(sections, art)
	} else {
		sections = append(sections, RenderBanner(width), "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(i18n.T(w.ctx, "Tagline"))
		hint := theme.Hint.Render("press any key to continue")
		sections = append(sections, tagline, "", hint)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
