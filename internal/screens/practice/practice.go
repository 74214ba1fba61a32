// Package practice is the screen where a batch of exercises is fetched,
// answered and scored.
package practice

import (
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/router"
	"github.com/abhisek/grammarflow/internal/screen"
	"github.com/abhisek/grammarflow/internal/screens"
	"github.com/abhisek/grammarflow/internal/screens/summary"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/speech"
	"github.com/abhisek/grammarflow/internal/ui/components"
	"github.com/abhisek/grammarflow/internal/ui/layout"
)

const spinnerInterval = 120 * time.Millisecond

// PracticeScreen drives one run through the session controller.
type PracticeScreen struct {
	deps       screens.Deps
	difficulty grammar.Difficulty

	// built is the ID of the exercise the input widgets belong to.
	built string
	mc    components.MultiChoice
	text  components.AnswerInput
	words components.WordBank

	errMenu  components.Menu
	speaking bool
	note     string
	spin     int
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.BackHandler = (*PracticeScreen)(nil)

// New creates a practice screen that requests a batch at difficulty d
// for the controller's selected topic when it starts.
func New(deps screens.Deps, d grammar.Difficulty) *PracticeScreen {
	s := &PracticeScreen{deps: deps, difficulty: d}
	s.errMenu = components.NewMenu([]components.MenuItem{
		{Label: i18n.T(deps.Context(), "TryAgain"), Action: s.retry},
		{Label: i18n.T(deps.Context(), "BackToTopics"), Action: s.backToTopics},
	})
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.fetch(func() (session.Ticket, error) {
		return s.deps.Session.BeginFetch(s.difficulty)
	})
}

func (s *PracticeScreen) Title() string {
	if t := s.deps.Session.Snapshot().Topic; t != nil {
		return t.Name + " · " + s.difficulty.Label()
	}
	return s.difficulty.Label()
}

// Back abandons the run so a different level can be picked.
func (s *PracticeScreen) Back() (tea.Cmd, bool) {
	s.deps.Session.Abandon()
	return nil, false
}

func (s *PracticeScreen) fetch(begin func() (session.Ticket, error)) tea.Cmd {
	t, err := begin()
	if err != nil {
		s.note = err.Error()
		return nil
	}
	s.note = ""
	ctx := s.deps.Context()
	ctrl := s.deps.Session
	return tea.Batch(
		func() tea.Msg {
			exercises, err := ctrl.Fetch(ctx, t)
			return batchMsg{ticket: t, exercises: exercises, err: err}
		},
		spinnerTick(),
	)
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *PracticeScreen) retry() tea.Cmd {
	return s.fetch(s.deps.Session.BeginRetry)
}

func (s *PracticeScreen) backToTopics() tea.Cmd {
	s.deps.Session.LeaveTopic()
	return s.home()
}

func (s *PracticeScreen) home() tea.Cmd {
	if s.deps.Home == nil {
		return router.PopCmd()
	}
	next := s.deps.Home()
	return router.ResetCmd(next)
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case batchMsg:
		err := s.deps.Session.ApplyBatch(msg.ticket, msg.exercises, msg.err)
		if errors.Is(err, session.ErrStaleResponse) {
			return s, nil
		}
		return s, s.syncInput()

	case spinnerTickMsg:
		if !s.deps.Session.Loading() {
			return s, nil
		}
		s.spin++
		return s, spinnerTick()

	case speechDoneMsg:
		s.speaking = false
		if msg.err != nil && !errors.Is(msg.err, speech.ErrBusy) {
			s.note = i18n.T(s.deps.Context(), "SpeechUnavailable")
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.deps.Session.Phase() == session.PhaseAnswering && s.isTextKind() {
		var cmd tea.Cmd
		s.text, cmd = s.text.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	ctrl := s.deps.Session
	key := msg.String()

	if ctrl.Err() != nil && !ctrl.Loading() {
		var cmd tea.Cmd
		s.errMenu, cmd = s.errMenu.Update(msg)
		return s, cmd
	}

	switch ctrl.Phase() {
	case session.PhaseAnswering:
		switch key {
		case "ctrl+s":
			return s, s.speak()
		case "enter":
			s.submit()
			return s, nil
		}
		return s, s.updateInput(msg)

	case session.PhaseFeedback:
		switch key {
		case "ctrl+s":
			return s, s.speak()
		case "enter", "space", " ":
			return s, s.advance()
		}

	case session.PhaseComplete:
		return s, s.showSummary()
	}
	return s, nil
}

func (s *PracticeScreen) updateInput(msg tea.KeyMsg) tea.Cmd {
	ctrl := s.deps.Session
	ex, ok := ctrl.Snapshot().Current()
	if !ok {
		return nil
	}

	switch ex.Kind {
	case grammar.KindMultipleChoice:
		s.mc, _ = s.mc.Update(msg)
		ctrl.SelectOption(s.mc.Choice())
		return nil

	case grammar.KindScrambledSentence:
		var move *components.WordMove
		s.words, move = s.words.Update(msg)
		if move != nil {
			if move.FromAssembled {
				ctrl.UnpickWord(move.Index)
			} else {
				ctrl.PickWord(move.Index)
			}
			v := ctrl.View()
			s.words.SetWords(v.Bank, v.Assembled)
		}
		return nil

	default:
		var cmd tea.Cmd
		s.text, cmd = s.text.Update(msg)
		ctrl.SetText(s.text.Value())
		return cmd
	}
}

func (s *PracticeScreen) submit() {
	ctrl := s.deps.Session
	ex, ok := ctrl.Snapshot().Current()
	if !ok {
		return
	}
	if ex.Kind == grammar.KindMultipleChoice {
		ctrl.SelectOption(s.mc.Choice())
	}
	fb, ok := ctrl.Submit()
	if !ok {
		return
	}
	s.note = ""
	s.mc.Locked = true
	s.words.Locked = true
	s.text.Mark(fb.Correct)
}

func (s *PracticeScreen) advance() tea.Cmd {
	ctrl := s.deps.Session
	ctrl.Advance()
	s.note = ""
	if ctrl.Phase() == session.PhaseComplete {
		return s.showSummary()
	}
	return s.syncInput()
}

func (s *PracticeScreen) showSummary() tea.Cmd {
	next := summary.New(s.deps)
	return router.ReplaceCmd(next)
}

// syncInput rebuilds the input widgets when the current exercise changed.
func (s *PracticeScreen) syncInput() tea.Cmd {
	v := s.deps.Session.View()
	ex, ok := v.State.Current()
	if !ok || ex.ID == s.built {
		return nil
	}
	s.built = ex.ID

	switch ex.Kind {
	case grammar.KindMultipleChoice:
		s.mc = components.NewMultiChoice(ex.Options)
	case grammar.KindScrambledSentence:
		s.words = components.NewWordBank(v.Bank, v.Assembled)
	default:
		s.text = components.NewAnswerInput("Type your answer...")
		return s.text.Init()
	}
	return nil
}

func (s *PracticeScreen) isTextKind() bool {
	ex, ok := s.deps.Session.Snapshot().Current()
	if !ok {
		return false
	}
	return ex.Kind == grammar.KindFillInBlank || ex.Kind == grammar.KindTranslation
}

func (s *PracticeScreen) speak() tea.Cmd {
	ex, ok := s.deps.Session.Snapshot().Current()
	if !ok {
		return nil
	}
	svc := s.deps.Speech
	if svc == nil {
		s.note = i18n.T(s.deps.Context(), "SpeechUnavailable")
		return nil
	}
	if s.speaking || svc.Busy() {
		return nil
	}
	s.speaking = true
	ctx := s.deps.Context()
	text := ex.SpeakText()
	return func() tea.Msg {
		return speechDoneMsg{err: svc.Speak(ctx, text)}
	}
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	ctrl := s.deps.Session
	if ctrl.Err() != nil && !ctrl.Loading() {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}

	speak := layout.KeyHint{Key: "Ctrl+S", Description: "Listen"}
	switch ctrl.Phase() {
	case session.PhaseAnswering:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Check"}}
		ex, _ := ctrl.Snapshot().Current()
		switch ex.Kind {
		case grammar.KindMultipleChoice:
			hints = append(hints, layout.KeyHint{Key: "↑↓/1-6", Description: "Choose"})
		case grammar.KindScrambledSentence:
			hints = append(hints,
				layout.KeyHint{Key: "←→", Description: "Move"},
				layout.KeyHint{Key: "Space", Description: "Pick"},
				layout.KeyHint{Key: "Tab", Description: "Switch row"},
			)
		}
		return append(hints, speak, layout.KeyHint{Key: "Esc", Description: "Quit"})
	case session.PhaseFeedback:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}, speak}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}
