package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/practiz/internal/quiz"
	sess "github.com/abhisek/practiz/internal/session"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}

	v := s.machine.Snapshot()

	var body string
	switch v.Phase {
	case sess.PhaseAnswering:
		body = s.renderQuestion(v, width)
	case sess.PhaseFeedback:
		body = s.renderQuestion(v, width) + s.renderFeedback(v, width)
	case sess.PhaseCompleted:
		body = s.renderSummary(v, width)
	case sess.PhaseReviewing:
		body = s.renderReview(v, width)
	case sess.PhaseEmpty:
		body = theme.Line(width, theme.TextDim, "\n\n\nNo questions match this selection.")
	case sess.PhaseClosed:
		body = theme.Line(width, theme.TextDim, "\n\n\nSession closed.")
	default:
		body = theme.Line(width, theme.TextDim, "\n\n\nPreparing your session...")
	}

	if v.Expanding {
		body += "\n\n" + theme.Line(width, theme.Accent, "Generating questions...")
	}
	if s.notice != "" {
		body += "\n\n" + theme.Line(width, theme.TextDim, s.notice)
	}
	return body
}

func (s *QuizScreen) renderQuestion(v sess.View, width int) string {
	q := v.CurrentQuestion

	var b strings.Builder

	infoLeft := theme.TopicLabel.Render("  Topic: " + s.topicName(q.ConceptID))
	infoRight := theme.Counter.Render(fmt.Sprintf("Q %d/%d  %s %d",
		v.Cursor+1, v.Total, theme.Correct.Render("✓"), v.Correct))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(theme.Divider(width - 4))
	b.WriteString("\n\n")

	prompt := theme.Prompt.Width(theme.ReadingWidth(width)).Render(q.Prompt)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")

	if q.IsMultipleChoice() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
		if v.Phase == sess.PhaseAnswering {
			b.WriteString("\n")
			b.WriteString(theme.Line(width, theme.TextDim, "Select with 1-9 or arrows, then Enter"))
		}
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
	}
	return b.String()
}

func (s *QuizScreen) renderFeedback(v sess.View, width int) string {
	q, a := v.CurrentQuestion, v.LastAttempt
	if a == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")
	if a.Correct {
		b.WriteString(theme.Line(width, theme.Success, "Correct!"))
	} else {
		b.WriteString(theme.Line(width, theme.Error, "Not quite"))
		if c, ok := q.CorrectChoice(); ok {
			b.WriteString("\n")
			b.WriteString(theme.Line(width, theme.TextDim, "Correct answer: "+c.Text))
		}
	}
	b.WriteString("\n")

	b.WriteString(renderExplanation(q, a, width))

	b.WriteString("\n")
	b.WriteString(theme.Line(width, theme.TextDim, "Press Enter to continue..."))
	return b.String()
}

// renderExplanation shows the rationale, the misconception hint for wrong
// answers and the keyword breakdown for short answers.
func renderExplanation(q *qz.Question, a *qz.Attempt, width int) string {
	var b strings.Builder
	textWidth := theme.ReadingWidth(width)

	if g := a.Grading; g != nil {
		if len(g.Matched) > 0 {
			b.WriteString(theme.Line(width, theme.Success, "Matched: "+strings.Join(g.Matched, ", ")))
			b.WriteString("\n")
		}
		if len(g.Missing) > 0 {
			b.WriteString(theme.Line(width, theme.TextDim, "Accepted keywords: "+strings.Join(q.CorrectKeywords, ", ")))
			b.WriteString("\n")
		}
	}
	if q.Rationale != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Rationale.Width(textWidth).Render(q.Rationale)))
		b.WriteString("\n")
	}
	if !a.Correct && q.MisconceptionHint != "" {
		b.WriteString("\n")
		hint := theme.Misconception.Width(textWidth).Render("Watch out: " + q.MisconceptionHint)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, hint))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *QuizScreen) renderSummary(v sess.View, width int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Line(width, theme.Primary, "Session complete!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Line(width, theme.Text, fmt.Sprintf("Questions: %d        Correct: %d        Score: %d%%",
		v.Total, v.Correct, v.ScorePct)))
	b.WriteString("\n\n")

	if len(v.MasteryDeltas) > 0 {
		b.WriteString(theme.Line(width, theme.TextDim, "Mastery"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Divider(min(width-8, 60))))
		b.WriteString("\n\n")

		barWidth := min(width-8, 60)
		for _, d := range v.MasteryDeltas {
			label := fmt.Sprintf("%-18s %d/%d", truncate(d.TopicName, 18), d.Correct, d.Total)
			bar := components.NewMasteryBar(label, d.CurrentMastery, d.NewMastery, barWidth)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(theme.Line(width, theme.TextDim, "No mastery gains this time. Keep practicing!"))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *QuizScreen) renderReview(v sess.View, width int) string {
	item := v.ReviewItem
	if item == nil {
		return ""
	}
	q, a := &item.Question, &item.Attempt

	var b strings.Builder
	b.WriteString(theme.ReviewLabel.Render(fmt.Sprintf("  Review %d/%d", v.ReviewIndex+1, v.ReviewTotal)))
	b.WriteString("\n")
	b.WriteString(theme.Divider(width - 4))
	b.WriteString("\n\n")

	prompt := theme.Prompt.Width(theme.ReadingWidth(width)).Render(q.Prompt)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")

	if q.IsMultipleChoice() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
	} else {
		b.WriteString(theme.Line(width, theme.Error, "Your answer: "+a.UserAnswer))
		b.WriteString("\n")
	}
	b.WriteString(renderExplanation(q, a, width))
	return b.String()
}

func (s *QuizScreen) topicName(conceptID string) string {
	if name, _ := s.machine.Course().MasteryFor(conceptID); name != "" {
		return name
	}
	return conceptID
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func renderError(width int, errMsg string) string {
	return theme.Line(width, theme.Error, fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
