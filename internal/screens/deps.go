// Package screens holds what the GrammarFlow screens share.
package screens

import (
	"context"

	"github.com/abhisek/grammarflow/internal/screen"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/speech"
)

// Deps are the collaborators handed from screen to screen.
type Deps struct {
	// Ctx carries the localizer and bounds background work.
	Ctx context.Context

	Session *session.Controller

	// Speech reads sentences aloud. Nil disables audio.
	Speech *speech.Service

	// Home builds the topic menu that a finished or abandoned run
	// returns to.
	Home func() screen.Screen
}

// Context returns d.Ctx or a background context.
func (d Deps) Context() context.Context {
	if d.Ctx == nil {
		return context.Background()
	}
	return d.Ctx
}
