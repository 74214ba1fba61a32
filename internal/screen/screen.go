// Package screen defines what the router stacks. Screens render only
// their body; the app draws the header and footer around it.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarflow/internal/ui/layout"
)

type Screen interface {
	Init() tea.Cmd
	// Update may return a different screen to take this one's place.
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title is shown in the header breadcrumb. Empty titles are skipped.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler lets a screen react to Esc. If handled is false the app
// still pops the screen after cmd.
type BackHandler interface {
	Back() (cmd tea.Cmd, handled bool)
}
