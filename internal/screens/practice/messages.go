package practice

import (
	"time"

	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/session"
)

// batchMsg carries the outcome of one batch request.
type batchMsg struct {
	ticket    session.Ticket
	exercises []grammar.Exercise
	err       error
}

// spinnerTickMsg animates the loading indicator.
type spinnerTickMsg time.Time

// speechDoneMsg is sent when playback of a sentence ends.
type speechDoneMsg struct {
	err error
}
