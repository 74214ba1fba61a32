package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// WordMove is a request to move one word between the bank and the
// assembled sentence.
type WordMove struct {
	// FromAssembled is true when the word goes back to the bank.
	FromAssembled bool
	Index         int
}

// WordBank renders a scrambled-sentence exercise as two rows of chips and
// tracks a cursor across them. The words themselves are owned by the
// caller and refreshed with SetWords after every move.
type WordBank struct {
	Bank        []string
	Assembled   []string
	InAssembled bool
	Cursor      int
	Locked      bool
}

// NewWordBank creates a word bank with the cursor in the bank row.
func NewWordBank(bank, assembled []string) WordBank {
	w := WordBank{}
	w.SetWords(bank, assembled)
	return w
}

// SetWords replaces both rows and keeps the cursor in range, switching
// rows when the current one is empty.
func (w *WordBank) SetWords(bank, assembled []string) {
	w.Bank = bank
	w.Assembled = assembled
	if w.InAssembled && len(w.Assembled) == 0 {
		w.InAssembled = false
	}
	if !w.InAssembled && len(w.Bank) == 0 && len(w.Assembled) > 0 {
		w.InAssembled = true
	}
	if n := len(w.row()); w.Cursor >= n {
		w.Cursor = n - 1
	}
	if w.Cursor < 0 {
		w.Cursor = 0
	}
}

func (w WordBank) row() []string {
	if w.InAssembled {
		return w.Assembled
	}
	return w.Bank
}

// Update moves the cursor with left/right and switches rows with tab or
// up/down. Space moves the word under the cursor; backspace returns the
// last assembled word to the bank.
func (w WordBank) Update(msg tea.Msg) (WordBank, *WordMove) {
	if w.Locked {
		return w, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if w.Cursor > 0 {
			w.Cursor--
		}
	case "right", "l":
		if w.Cursor < len(w.row())-1 {
			w.Cursor++
		}
	case "tab", "up", "down":
		w.InAssembled = !w.InAssembled
		w.SetWords(w.Bank, w.Assembled)
	case "space", " ":
		if len(w.row()) == 0 {
			return w, nil
		}
		return w, &WordMove{FromAssembled: w.InAssembled, Index: w.Cursor}
	case "backspace":
		if len(w.Assembled) == 0 {
			return w, nil
		}
		return w, &WordMove{FromAssembled: true, Index: len(w.Assembled) - 1}
	}
	return w, nil
}

// View renders the assembled sentence above the remaining words.
func (w WordBank) View(width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(dim.Render("Your sentence"))
	b.WriteString("\n")
	if len(w.Assembled) == 0 {
		b.WriteString(theme.Hint.Render("pick words below with space"))
	} else {
		b.WriteString(w.chips(w.Assembled, w.InAssembled, width))
	}
	b.WriteString("\n\n")
	b.WriteString(dim.Render("Words"))
	b.WriteString("\n")
	b.WriteString(w.chips(w.Bank, !w.InAssembled, width))
	return b.String()
}

func (w WordBank) chips(words []string, active bool, width int) string {
	var lines []string
	var line string
	for i, word := range words {
		style := theme.Chip
		if active && !w.Locked && i == w.Cursor {
			style = theme.ChipSelected
		}
		chip := style.Render(word)
		if line != "" && lipgloss.Width(line)+1+lipgloss.Width(chip) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += chip
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
