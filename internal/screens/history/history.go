// Package history lists completed practice sessions.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/store"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

// Limit is the number of sessions loaded.
const Limit = 50

type historyLoadedMsg struct {
	Sessions []store.SessionResult
	Err      error
}

// HistoryScreen displays past sessions with a per-concept breakdown.
type HistoryScreen struct {
	repo     store.SessionRepo
	courseID string
	sessions []store.SessionResult
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. An empty courseID shows every course.
func New(repo store.SessionRepo, courseID string) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		courseID: courseID,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, courseID := s.repo, s.courseID
	return func() tea.Msg {
		sessions, err := repo.Recent(context.Background(), courseID, Limit)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.Failure(width, s.errMsg)
	}
	if !s.loaded {
		return theme.Status(width, "Loading history...")
	}
	if len(s.sessions) == 0 {
		return theme.Status(width, "No sessions yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, res := range s.sessions {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s  %-8s %d/%d correct  %d%%",
			prefix,
			res.FinishedAt.Format("Jan 02, 2006"),
			formatDuration(res.FinishedAt.Sub(res.StartedAt)),
			res.Mode,
			res.Correct, res.Questions, res.ScorePct)
		if s.courseID == "" {
			if res.CourseID == "" {
				line += "  all courses"
			} else {
				line += "  " + res.CourseID
			}
		}

		style := theme.Option
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderBreakdown(res, width))
		}
	}

	return b.String()
}

// renderBreakdown shows per-concept results rebuilt from the attempts.
func renderBreakdown(res store.SessionResult, width int) string {
	stats := mastery.Rebuild(res.Attempts).Stats()
	if len(stats) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Inactive.Italic(true).Render("    No attempts recorded")) + "\n"
	}

	var b strings.Builder
	for _, st := range stats {
		line := fmt.Sprintf("    %-24s %d/%d  %.0f%%", st.ConceptID, st.Correct, st.Total, st.Performance())
		color := theme.Secondary
		if st.Correct < st.Total {
			color = theme.Accent
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(color).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
