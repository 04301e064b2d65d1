// Package theme holds the colours and styles shared by the practiz screens.
package theme

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Palette: high contrast on a dark background.
var (
	Primary   = lipgloss.Color("#8B5CF6")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F97316")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

// Question and feedback text.
var (
	Prompt = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	Rationale = lipgloss.NewStyle().
			Foreground(Text)

	// Misconception is the "Watch out" line shown after a wrong answer.
	Misconception = lipgloss.NewStyle().
			Foreground(Accent).
			Italic(true)

	TopicLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	ReviewLabel = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Counter = lipgloss.NewStyle().
		Foreground(TextDim)
)

// List rows: answer options and menu entries.
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Option = lipgloss.NewStyle().
		Foreground(Text)

	// Inactive is a row that cannot be picked, or an option that is
	// neither correct nor chosen once answers are revealed.
	Inactive = lipgloss.NewStyle().
			Foreground(TextDim)

	// Detail is the trailing note on a menu row, such as a question count.
	Detail = lipgloss.NewStyle().
		Foreground(TextDim)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Mastery bar segments.
var (
	MasteryKept   = lipgloss.NewStyle().Background(Secondary)
	MasteryGained = lipgloss.NewStyle().Background(Accent)
	MasteryEmpty  = lipgloss.NewStyle().Background(Border)
)

// ReadingWidth is the column count prompts and rationales wrap at.
func ReadingWidth(width int) int {
	return max(min(width-8, 70), 20)
}

// Line renders text centred across width in fg.
func Line(width int, fg color.Color, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Render(text)
}

// Status renders a loading or empty-state message.
func Status(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(TextDim).
		Italic(true).
		Render("\n\n  " + text)
}

// Failure renders an error message for a screen that could not load.
func Failure(width int, msg string) string {
	return Line(width, Error, "\n\nError: "+msg)
}

// Divider is a horizontal rule n cells wide.
func Divider(n int) string {
	return lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(n, 0)))
}
