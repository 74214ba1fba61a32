// Package router keeps the stack of screens the user has walked through:
// welcome, topic menu, difficulty picker, practice and summary.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarflow/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct{ Screen screen.Screen }

// PopScreenMsg returns to the previous screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen for Screen.
type ReplaceScreenMsg struct{ Screen screen.Screen }

// ResetScreenMsg discards the whole stack and starts over at Screen.
type ResetScreenMsg struct{ Screen screen.Screen }

// PushCmd, PopCmd, ReplaceCmd and ResetCmd wrap the navigation messages
// so screens can return them directly from Update.
func PushCmd(s screen.Screen) tea.Cmd    { return func() tea.Msg { return PushScreenMsg{Screen: s} } }
func PopCmd() tea.Cmd                    { return func() tea.Msg { return PopScreenMsg{} } }
func ReplaceCmd(s screen.Screen) tea.Cmd { return func() tea.Msg { return ReplaceScreenMsg{Screen: s} } }
func ResetCmd(s screen.Screen) tea.Cmd   { return func() tea.Msg { return ResetScreenMsg{Screen: s} } }

// Router owns the screen stack. The bottom screen is never popped.
type Router struct {
	stack []screen.Screen
}

func New(initial screen.Screen) *Router {
	return &Router{stack: []screen.Screen{initial}}
}

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack[len(r.stack)-1] = nil
		r.stack = r.stack[:len(r.stack)-1]
	}
	return nil
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if n := len(r.stack); n > 0 {
		r.stack[n-1] = s
		return s.Init()
	}
	return r.Push(s)
}

func (r *Router) Reset(s screen.Screen) tea.Cmd {
	clear(r.stack)
	r.stack = append(r.stack[:0], s)
	return s.Init()
}

// Active returns the top screen, or nil for an empty router.
func (r *Router) Active() screen.Screen {
	if n := len(r.stack); n > 0 {
		return r.stack[n-1]
	}
	return nil
}

func (r *Router) Depth() int { return len(r.stack) }

// Trail lists the titles of the stacked screens, bottom first. Screens
// with an empty title are skipped.
func (r *Router) Trail() []string {
	trail := make([]string, 0, len(r.stack))
	for _, s := range r.stack {
		if t := s.Title(); t != "" {
			trail = append(trail, t)
		}
	}
	return trail
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case ResetScreenMsg:
		return r.Reset(msg.Screen)
	}

	n := len(r.stack)
	if n == 0 {
		return nil
	}
	var cmd tea.Cmd
	r.stack[n-1], cmd = r.stack[n-1].Update(msg)
	return cmd
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
