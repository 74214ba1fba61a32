package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// maxAnswerLen caps typed answers; translations are the longest.
const maxAnswerLen = 200

// AnswerInput is the free-text field for fill-in-the-blank and
// translation exercises. Once marked it stops accepting keys and shows
// the verdict next to the text.
type AnswerInput struct {
	field   textinput.Model
	marked  bool
	correct bool
}

func NewAnswerInput(placeholder string) AnswerInput {
	f := textinput.New()
	f.Placeholder = placeholder
	f.Prompt = "› "
	f.CharLimit = maxAnswerLen
	f.Focus()
	return AnswerInput{field: f}
}

func (a AnswerInput) Init() tea.Cmd {
	return a.field.Focus()
}

func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if a.marked {
		return a, nil
	}
	var cmd tea.Cmd
	a.field, cmd = a.field.Update(msg)
	return a, cmd
}

func (a AnswerInput) Value() string { return a.field.Value() }

// Mark freezes the field with the checked result.
func (a *AnswerInput) Mark(correct bool) {
	a.marked = true
	a.correct = correct
	a.field.Blur()
}

func (a AnswerInput) View() string {
	if !a.marked {
		return a.field.View()
	}
	verdict := lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	if a.correct {
		verdict = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	}
	return a.field.View() + " " + verdict
}
