package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/ui/theme"
)

// MenuItem is one row of a Menu. Detail, when set, is rendered dimmed
// after the label.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. Navigation skips disabled rows and
// wraps at either end.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// Select moves the selection to i when i is an enabled row and reports
// whether it did.
func (m *Menu) Select(i int) bool {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return false
	}
	m.Selected = i
	return true
}

// Current returns the selected item, if any item is enabled.
func (m Menu) Current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) || m.Items[m.Selected].Disabled {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// Update handles up/down, home/end and enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "home":
		for i := range m.Items {
			if m.Select(i) {
				break
			}
		}
	case "end":
		for i := len(m.Items) - 1; i >= 0; i-- {
			if m.Select(i) {
				break
			}
		}
	case "enter":
		if item, ok := m.Current(); ok && item.Action != nil {
			return m, item.Action()
		}
	}

	return m, nil
}

// step moves dir rows at a time until it lands on an enabled row.
func (m *Menu) step(dir int) {
	n := len(m.Items)
	for k := 1; k < n; k++ {
		if m.Select(((m.Selected+dir*k)%n + n) % n) {
			return
		}
	}
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		style, prefix := theme.Option, "    "
		switch {
		case item.Disabled:
			style = theme.Inactive
		case i == m.Selected:
			style, prefix = theme.Selected, "  ▸ "
		}
		b.WriteString(style.Render(prefix + item.Label))
		if item.Detail != "" {
			b.WriteString(theme.Detail.Render("  " + item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
