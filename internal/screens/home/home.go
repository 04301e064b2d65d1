// Package home is the landing screen: bank and history stats plus the
// main menu.
package home

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/screens/courses"
	"github.com/abhisek/practiz/internal/screens/history"
	quizscreen "github.com/abhisek/practiz/internal/screens/quiz"
	"github.com/abhisek/practiz/internal/selection"
	"github.com/abhisek/practiz/internal/ui/components"
)

// statsWindow is the number of recent sessions averaged on the home screen.
const statsWindow = 20

type statsLoadedMsg struct {
	Stats Stats
	Err   error
}

// Stats are the dashboard numbers.
type Stats struct {
	Courses   int
	Questions int
	Sessions  int
	AvgScore  int
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps       quizscreen.Deps
	menu       components.Menu
	menuLabels []string
	stats      Stats
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ router.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(cfg selection.Config, deps quizscreen.Deps) *HomeScreen {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	menuLabels := []string{"PRACTICE", "HISTORY", "QUIT"}

	items := []components.MenuItem{
		{Label: menuLabels[0], Disabled: deps.Courses == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: courses.New(cfg, deps)}
			}
		}},
		{Label: menuLabels[1], Disabled: deps.Sessions == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(deps.Sessions, "")}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		deps:       deps,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume refreshes the stats when returning from a session.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx := context.Background()
		var st Stats

		if deps.Courses != nil {
			list, err := deps.Courses.ListCourses(ctx)
			if err != nil {
				return statsLoadedMsg{Err: err}
			}
			st.Courses = len(list)
			for _, c := range list {
				st.Questions += c.Questions
			}
		}

		if deps.Sessions != nil {
			recent, err := deps.Sessions.Recent(ctx, "", statsWindow)
			if err != nil {
				return statsLoadedMsg{Err: err}
			}
			st.Sessions = len(recent)
			total := 0
			for _, r := range recent {
				total += r.ScorePct
			}
			if len(recent) > 0 {
				st.AvgScore = total / len(recent)
			}
		}
		return statsLoadedMsg{Stats: st}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.Err != nil {
			h.deps.Logger.Warn("failed to load home stats", "error", msg.Err)
			return h, nil
		}
		h.stats = msg.Stats
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 20 || width < 100
	cw := contentWidth(width)

	disabled := make(map[int]bool)
	for i, item := range h.menu.Items {
		disabled[i] = item.Disabled
	}

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if h.deps.Expander == nil {
		sections = append(sections, renderLLMBanner(cw))
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw, disabled))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw, disabled))
	}

	return centerBlock(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
