package practice

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarflow/internal/exercisegen"
	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/router"
	"github.com/abhisek/grammarflow/internal/screen"
	"github.com/abhisek/grammarflow/internal/screens"
	"github.com/abhisek/grammarflow/internal/screens/summary"
	"github.com/abhisek/grammarflow/internal/session"
)

type mockGenerator struct {
	batch []grammar.Exercise
	err   error
	calls int
}

func (m *mockGenerator) Generate(_ context.Context, _ exercisegen.Input) ([]grammar.Exercise, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.batch, nil
}

type homeStub struct{}

func (homeStub) Init() tea.Cmd                          { return nil }
func (h homeStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return h, nil }
func (homeStub) View(int, int) string                   { return "home" }
func (homeStub) Title() string                          { return "Home" }

func testBatch() []grammar.Exercise {
	return []grammar.Exercise{
		{
			ID:          "q1",
			Kind:        grammar.KindMultipleChoice,
			Question:    "She ___ to school every day.",
			Options:     []string{"go", "goes", "going", "gone"},
			Answer:      "goes",
			Explanation: "Third person singular takes -s.",
		},
		{
			ID:          "q2",
			Kind:        grammar.KindFillInBlank,
			Question:    "I have lived here ___ 2010.",
			Answer:      "since",
			Explanation: "Use since with a point in time.",
		},
		{
			ID:          "q3",
			Kind:        grammar.KindScrambledSentence,
			Question:    "Put the words in order.",
			Options:     []string{"cat", "the", "sleeps"},
			Answer:      "the cat sleeps",
			Explanation: "Subject before verb.",
		},
	}
}

func newTestScreen(gen *mockGenerator) (*PracticeScreen, *session.Controller) {
	ctrl := session.New(session.Config{
		Generator: gen,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
	topic, _ := grammar.GetTopic("tenses")
	ctrl.SelectTopic(topic)
	deps := screens.Deps{
		Ctx:     context.Background(),
		Session: ctrl,
		Home:    func() screen.Screen { return homeStub{} },
	}
	return New(deps, grammar.Beginner), ctrl
}

// load runs Init and feeds the resulting batch back into the screen.
func load(t *testing.T, s *PracticeScreen) {
	t.Helper()
	s.Init()
	if !s.deps.Session.Loading() {
		t.Fatal("expected loading after Init")
	}
	ticket, err := s.deps.Session.BeginFetch(grammar.Beginner)
	if err != nil {
		t.Fatalf("BeginFetch: %v", err)
	}
	ex, err := s.deps.Session.Fetch(context.Background(), ticket)
	s.Update(batchMsg{ticket: ticket, exercises: ex, err: err})
}

func key(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func TestInit_StartsLoading(t *testing.T) {
	s, ctrl := newTestScreen(&mockGenerator{batch: testBatch()})
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}
	if !ctrl.Loading() {
		t.Error("controller should be loading")
	}
	if !strings.Contains(s.View(100, 30), "Generating your English module") {
		t.Error("expected loading view")
	}
}

func TestStaleBatchIgnored(t *testing.T) {
	s, ctrl := newTestScreen(&mockGenerator{batch: testBatch()})
	first, _ := ctrl.BeginFetch(grammar.Beginner)
	second, _ := ctrl.BeginFetch(grammar.Beginner)

	s.Update(batchMsg{ticket: first, exercises: testBatch()[:1]})
	if !ctrl.Loading() {
		t.Fatal("stale batch must not end loading")
	}
	s.Update(batchMsg{ticket: second, exercises: testBatch()})
	if got := len(ctrl.Snapshot().Exercises); got != 3 {
		t.Errorf("exercises = %d, want 3", got)
	}
}

func TestMultipleChoiceFlow(t *testing.T) {
	s, ctrl := newTestScreen(&mockGenerator{batch: testBatch()})
	load(t, s)

	// Cursor starts on "go"; move to "goes".
	s.Update(key(tea.KeyDown))
	s.Update(key(tea.KeyEnter))

	fb, ok := ctrl.Feedback()
	if !ok {
		t.Fatal("expected feedback after submit")
	}
	if !fb.Correct {
		t.Errorf("expected correct answer, got %+v", fb)
	}
	if ctrl.Snapshot().Score != 1 {
		t.Errorf("score = %d, want 1", ctrl.Snapshot().Score)
	}
	if !strings.Contains(s.View(100, 40), "Splendid!") {
		t.Error("expected correct feedback heading")
	}

	s.Update(key(tea.KeyEnter))
	if ctrl.Snapshot().CurrentIndex != 1 {
		t.Errorf("index = %d, want 1", ctrl.Snapshot().CurrentIndex)
	}
}

func TestNumberKeySelectsOption(t *testing.T) {
	s, ctrl := newTestScreen(&mockGenerator{batch: testBatch()})
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	s.Update(key(tea.KeyEnter))

	fb, ok := ctrl.Feedback()
	if !ok || fb.Correct {
		t.Errorf("expected incorrect feedback for option 3, got %+v ok=%v", fb, ok)
	}
}

func TestTextExerciseFlow(t *testing.T) {
	s, ctrl := newTestScreen(&mockGenerator{batch: testBatch()})
	load(t, s)
	s.Update(key(tea.KeyDown))
	s.Update(key(tea.KeyEnter))
	s.Update(key(tea.KeyEnter))

	// Enter on an empty text input does nothing.
	s.Update(key(tea.KeyEnter))
	if _, ok := ctrl.Feedback(); ok {
		t.Fatal("empty answer must not be submitted")
	}

	for _, r := range "since" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if got := ctrl.View().Text; got != "since" {
		t.Fatalf("text = %q, want since", got)
	}
	s.Update(key(tea.KeyEnter))
	if fb, ok := ctrl.Feedback(); !ok || !fb.Correct {
		t.Errorf("expected correct feedback, got %+v", fb)
	}
}

func TestScrambledExerciseAndSummary(t *testing.T) {
	s, ctrl := newTestScreen(&mockGenerator{batch: testBatch()[2:]})
	load(t, s)

	words := ctrl.View().Bank
	want := []string{"the", "cat", "sleeps"}
	for _, w := range want {
		idx := -1
		for i, b := range words {
			if b == w {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.Fatalf("word %q not in bank %v", w, words)
		}
		s.words.Cursor = idx
		s.Update(key(tea.KeySpace))
		words = ctrl.View().Bank
	}
	if got := strings.Join(ctrl.View().Assembled, " "); got != "the cat sleeps" {
		t.Fatalf("assembled = %q", got)
	}

	s.Update(key(tea.KeyEnter))
	if fb, ok := ctrl.Feedback(); !ok || !fb.Correct {
		t.Fatalf("expected correct feedback, got %+v", fb)
	}

	_, cmd := s.Update(key(tea.KeyEnter))
	if ctrl.Phase() != session.PhaseComplete {
		t.Fatalf("phase = %v, want complete", ctrl.Phase())
	}
	if cmd == nil {
		t.Fatal("expected navigation to summary")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}
}

func TestBackspaceReturnsLastWord(t *testing.T) {
	s, ctrl := newTestScreen(&mockGenerator{batch: testBatch()[2:]})
	load(t, s)

	s.Update(key(tea.KeySpace))
	if len(ctrl.View().Assembled) != 1 {
		t.Fatal("expected one assembled word")
	}
	s.Update(key(tea.KeyBackspace))
	if len(ctrl.View().Assembled) != 0 || len(ctrl.View().Bank) != 3 {
		t.Errorf("unexpected state: %+v", ctrl.View())
	}
}

func TestFetchErrorShowsRetry(t *testing.T) {
	gen := &mockGenerator{err: errors.New("provider down")}
	s, ctrl := newTestScreen(gen)
	load(t, s)

	if ctrl.Err() == nil {
		t.Fatal("expected fetch error")
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "hiccup") || !strings.Contains(view, "Try Again") {
		t.Errorf("expected error view with retry, got:\n%s", view)
	}

	gen.err = nil
	gen.batch = testBatch()
	_, cmd := s.Update(key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("Try Again should start a fetch")
	}
	if !ctrl.Loading() {
		t.Error("expected loading after retry")
	}
}

func TestFetchErrorBackToTopics(t *testing.T) {
	s, ctrl := newTestScreen(&mockGenerator{err: errors.New("provider down")})
	load(t, s)

	s.Update(key(tea.KeyDown))
	_, cmd := s.Update(key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	if _, ok := cmd().(router.ResetScreenMsg); !ok {
		t.Errorf("expected ResetScreenMsg, got %T", cmd())
	}
	if ctrl.Snapshot().Topic != nil {
		t.Error("topic should be cleared")
	}
}

func TestBackAbandonsRun(t *testing.T) {
	s, ctrl := newTestScreen(&mockGenerator{batch: testBatch()})
	load(t, s)

	_, handled := s.Back()
	if handled {
		t.Error("practice should let the router pop it")
	}
	if len(ctrl.Snapshot().Exercises) != 0 {
		t.Error("exercises should be cleared")
	}
	if ctrl.Snapshot().Topic == nil {
		t.Error("topic should be kept")
	}
}

func TestSpeakWithoutServiceShowsNote(t *testing.T) {
	s, _ := newTestScreen(&mockGenerator{batch: testBatch()})
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if cmd != nil {
		t.Error("no speech command expected without a service")
	}
	if !strings.Contains(s.View(100, 40), "Audio is not available") {
		t.Error("expected speech unavailable note")
	}
}
