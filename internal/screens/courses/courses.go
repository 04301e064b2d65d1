// Package courses is the course picker that starts practice sessions.
package courses

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/practiz/internal/quiz"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	quizscreen "github.com/abhisek/practiz/internal/screens/quiz"
	"github.com/abhisek/practiz/internal/selection"
	"github.com/abhisek/practiz/internal/store"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

// defaultMix is the number of concepts drawn from when mixed mode is
// toggled on without a configured value.
const defaultMix = 3

// allCourses draws from every course in the bank. Its empty ID selects
// questions without a course filter.
var allCourses = qz.Course{Name: "All courses"}

type coursesLoadedMsg struct {
	Courses []store.CourseSummary
	Err     error
}

type sessionOpenedMsg struct {
	Screen *quizscreen.QuizScreen
	Err    error
}

// CoursesScreen lists the courses in the bank.
type CoursesScreen struct {
	deps quizscreen.Deps
	cfg  selection.Config

	courses []store.CourseSummary
	menu    components.Menu
	mixed   bool
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*CoursesScreen)(nil)
var _ screen.KeyHintProvider = (*CoursesScreen)(nil)
var _ router.Resumer = (*CoursesScreen)(nil)

// New creates a CoursesScreen. cfg is the selection used for every
// session started from it; deps.Courses must be set.
func New(cfg selection.Config, deps quizscreen.Deps) *CoursesScreen {
	if cfg.Limit <= 0 {
		cfg.Limit = selection.DefaultLimit
	}
	return &CoursesScreen{
		deps:  deps,
		cfg:   cfg,
		mixed: cfg.MixConcepts > 0,
	}
}

func (s *CoursesScreen) Init() tea.Cmd {
	return s.load()
}

// Resume refreshes the bank counts after a session may have grown it.
func (s *CoursesScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *CoursesScreen) load() tea.Cmd {
	repo := s.deps.Courses
	return func() tea.Msg {
		courses, err := repo.ListCourses(context.Background())
		return coursesLoadedMsg{Courses: courses, Err: err}
	}
}

func (s *CoursesScreen) Title() string {
	return "Courses"
}

func (s *CoursesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practice"},
		{Key: "M", Description: "Toggle mixed"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.setCourses(msg.Courses)
		return s, nil

	case sessionOpenedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: msg.Screen} }

	case tea.KeyMsg:
		if msg.String() == "m" || msg.String() == "M" {
			s.mixed = !s.mixed
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// setCourses rebuilds the menu. With more than one course an "All
// courses" row comes first.
func (s *CoursesScreen) setCourses(courses []store.CourseSummary) {
	selected := s.menu.Selected
	s.courses = courses

	var items []components.MenuItem
	if len(courses) > 1 {
		total := 0
		for _, c := range courses {
			total += c.Questions
		}
		items = append(items, components.MenuItem{
			Label:    allCourses.Name,
			Detail:   questionCount(total),
			Action:   s.open(allCourses),
			Disabled: total == 0,
		})
	}
	for _, c := range courses {
		items = append(items, components.MenuItem{
			Label:    c.Name,
			Detail:   questionCount(c.Questions),
			Action:   s.open(c.Course),
			Disabled: c.Questions == 0 && s.deps.Expander == nil,
		})
	}
	s.menu = components.NewMenu(items)
	s.menu.Select(selected)
}

func questionCount(n int) string {
	if n == 1 {
		return "(1 question)"
	}
	return fmt.Sprintf("(%d questions)", n)
}

func (s *CoursesScreen) open(course qz.Course) func() tea.Cmd {
	return func() tea.Cmd {
		cfg := s.config()
		deps := s.deps
		return func() tea.Msg {
			scr, err := quizscreen.Open(context.Background(), course, cfg, nil, deps)
			return sessionOpenedMsg{Screen: scr, Err: err}
		}
	}
}

func (s *CoursesScreen) config() selection.Config {
	cfg := s.cfg
	cfg.MixConcepts = 0
	if s.mixed {
		cfg.MixConcepts = s.cfg.MixConcepts
		if cfg.MixConcepts <= 0 {
			cfg.MixConcepts = defaultMix
		}
	}
	return cfg
}

func (s *CoursesScreen) View(width, height int) string {
	if s.errMsg != "" {
		return theme.Failure(width, s.errMsg)
	}
	if !s.loaded {
		return theme.Status(width, "Loading courses...")
	}
	if len(s.courses) == 0 {
		return theme.Status(width, "No courses yet. Import a question bank with `practiz bank import`.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	b.WriteString("\n")

	mode := fmt.Sprintf("Mode: %s  ·  %d questions per session", s.config().Mode(), s.cfg.Limit)
	b.WriteString(theme.Line(width, theme.TextDim, mode))
	return b.String()
}
