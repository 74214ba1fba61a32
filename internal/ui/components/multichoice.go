package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// OptionLabels are the letters shown before each option.
var OptionLabels = []string{"A", "B", "C", "D", "E", "F"}

// MultiChoice is a multiple-choice selector. The option under the cursor
// is the current choice.
type MultiChoice struct {
	Options []string
	Cursor  int
	Locked  bool
}

// NewMultiChoice creates a selector over options with the cursor on the
// first one.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update moves the cursor with the arrow keys, j/k, or an option's
// number or letter.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked || len(m.Options) == 0 {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	default:
		if i, ok := optionIndex(key); ok && i < len(m.Options) {
			m.Cursor = i
		}
	}
	return m, nil
}

func optionIndex(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '6':
		return int(c - '1'), true
	case c >= 'a' && c <= 'f':
		return int(c - 'a'), true
	}
	return 0, false
}

// Choice returns the option under the cursor.
func (m MultiChoice) Choice() string {
	if m.Cursor < 0 || m.Cursor >= len(m.Options) {
		return ""
	}
	return m.Options[m.Cursor]
}

// View renders the options. Once revealed, the option equal to answer is
// marked correct and a different chosen option incorrect.
func (m MultiChoice) View(answer string, revealed bool) string {
	var b strings.Builder
	for i, opt := range m.Options {
		label := OptionLabels[i%len(OptionLabels)]
		prefix := "  "
		if i == m.Cursor && !revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		var style lipgloss.Style
		switch {
		case revealed && opt == answer:
			style = theme.Correct
			line += "  ✓"
		case revealed && i == m.Cursor:
			style = theme.Incorrect
			line += "  ✗"
		case revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
