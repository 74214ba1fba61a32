package components

import (
	"image/color"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarflow/internal/ui/theme"
)

// MenuItem is one selectable row. Accent colors the cursor and label when
// the row is selected; nil uses the primary color.
type MenuItem struct {
	Label       string
	Description string
	Accent      color.Color
	Action      func() tea.Cmd
}

// Menu is a vertical list navigated with the arrow keys, j/k, or the
// row number. The cursor wraps at both ends.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	n := len(m.Items)
	switch k := key.String(); k {
	case "up", "k":
		m.Selected = (m.Selected - 1 + n) % n
	case "down", "j", "tab":
		m.Selected = (m.Selected + 1) % n
	case "home":
		m.Selected = 0
	case "end":
		m.Selected = n - 1
	case "enter":
		return m, m.activate()
	default:
		// 1-9 jumps to a row and picks it.
		if i, err := strconv.Atoi(k); err == nil && i >= 1 && i <= n && i <= 9 {
			m.Selected = i - 1
			return m, m.activate()
		}
	}
	return m, nil
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	if act := m.Items[m.Selected].Action; act != nil {
		return act()
	}
	return nil
}

func (m Menu) View() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	rows := make([]string, len(m.Items))
	for i, item := range m.Items {
		num := dim.Render(strconv.Itoa(i+1) + ".")
		label := theme.Unselected.Render(item.Label)
		cursor := "  "
		if i == m.Selected {
			accent := item.Accent
			if accent == nil {
				accent = theme.Primary
			}
			sel := theme.Selected.Foreground(accent)
			cursor = sel.Render("▸ ")
			label = sel.Render(item.Label)
		}
		row := cursor + num + " " + label
		if item.Description != "" {
			row += "\n      " + dim.Render(item.Description)
		}
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}
