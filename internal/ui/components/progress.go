package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/ui/theme"
)

// MasteryBar displays a 0-100 mastery value as a horizontal bar. When To
// is above From the gained segment is highlighted.
type MasteryBar struct {
	Label string
	From  int
	To    int
	Width int
}

// NewMasteryBar creates a bar showing mastery moving from one value to another.
func NewMasteryBar(label string, from, to, width int) MasteryBar {
	return MasteryBar{Label: label, From: from, To: to, Width: width}
}

// View renders the bar.
func (p MasteryBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Option.Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	suffix := fmt.Sprintf("  %d → %d", p.From, p.To)
	if p.To <= p.From {
		suffix = fmt.Sprintf("  %d", p.From)
	}
	barWidth := max(p.Width-labelWidth-lipgloss.Width(suffix), 4)

	kept := cells(barWidth, min(p.From, p.To))
	gained := cells(barWidth, p.To) - kept
	empty := barWidth - kept - gained

	result += theme.MasteryKept.Render(strings.Repeat(" ", kept))
	if gained > 0 {
		result += theme.MasteryGained.Render(strings.Repeat(" ", gained))
	}
	result += theme.MasteryEmpty.Render(strings.Repeat(" ", empty))

	return result + theme.Detail.Render(suffix)
}

// cells converts a 0-100 value into a number of filled cells.
func cells(width, value int) int {
	return max(0, min(width, width*value/100))
}
