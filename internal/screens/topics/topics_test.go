package topics

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/router"
	"github.com/abhisek/grammarflow/internal/screens"
	"github.com/abhisek/grammarflow/internal/screens/difficulty"
	"github.com/abhisek/grammarflow/internal/session"
)

func newTestScreen() (*TopicsScreen, *session.Controller) {
	ctrl := session.New(session.Config{})
	return New(screens.Deps{Ctx: context.Background(), Session: ctrl}), ctrl
}

func TestListsEveryTopic(t *testing.T) {
	s, _ := newTestScreen()
	view := s.View(100, 30)
	for _, topic := range grammar.AllTopics() {
		if !strings.Contains(view, topic.Name) {
			t.Errorf("view missing topic %q", topic.Name)
		}
	}
}

func TestSelectTopicPushesDifficulty(t *testing.T) {
	s, ctrl := newTestScreen()

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*difficulty.DifficultyScreen); !ok {
		t.Errorf("expected difficulty screen, got %T", push.Screen)
	}

	want := grammar.AllTopics()[1]
	if got := ctrl.Snapshot().Topic; got == nil || got.ID != want.ID {
		t.Errorf("topic = %v, want %s", got, want.ID)
	}
}
