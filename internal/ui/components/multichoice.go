package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/ui/theme"
)

// ChoiceOption is one selectable answer.
type ChoiceOption struct {
	ID   string
	Text string
}

// MultiChoice renders a question's choices in one of two modes. While
// answering, a cursor moves over the options. Once revealed it is read-only
// and marks the correct option and the one that was chosen.
type MultiChoice struct {
	Options []ChoiceOption
	Cursor  int

	revealed  bool
	correctID string
	chosenID  string
}

// NewMultiChoice creates a component in answering mode. The cursor starts
// on selectedID when it is one of the options. Otherwise nothing is
// selected until a key moves the cursor.
func NewMultiChoice(options []ChoiceOption, selectedID string) MultiChoice {
	m := MultiChoice{Options: options, Cursor: -1}
	for i, o := range options {
		if o.ID == selectedID {
			m.Cursor = i
		}
	}
	return m
}

// Reveal returns a read-only copy that highlights the correct and chosen
// options.
func (m MultiChoice) Reveal(correctID, chosenID string) MultiChoice {
	m.revealed = true
	m.correctID = correctID
	m.chosenID = chosenID
	return m
}

// Revealed reports whether the component is in read-only mode.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

// Current returns the option under the cursor. It reports false while
// nothing is selected.
func (m MultiChoice) Current() (ChoiceOption, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Options) {
		return ChoiceOption{}, false
	}
	return m.Options[m.Cursor], true
}

// Update handles arrow and number keys. It does nothing once revealed.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		switch {
		case m.Cursor < 0:
			m.Cursor = len(m.Options) - 1
		case m.Cursor > 0:
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Cursor = i
			}
		}
	}

	return m, nil
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.revealed {
			prefix = "▸ "
		}
		mark := ""
		if m.revealed {
			switch opt.ID {
			case m.correctID:
				mark = "  ✓"
			case m.chosenID:
				mark = "  ✗"
			}
		}

		line := fmt.Sprintf("%s%d)  %s%s", prefix, i+1, opt.Text, mark)

		style := theme.Option
		switch {
		case m.revealed && opt.ID == m.correctID:
			style = theme.Correct
		case m.revealed && opt.ID == m.chosenID:
			style = theme.Incorrect
		case m.revealed:
			style = theme.Inactive
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
