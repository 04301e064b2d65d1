// Package quiz is the screen that hosts a practice session: it turns key
// presses into state machine transitions and renders the machine's view.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/bankgen"
	qz "github.com/abhisek/practiz/internal/quiz"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	sess "github.com/abhisek/practiz/internal/session"
	"github.com/abhisek/practiz/internal/store"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
)

// Deps are the screen's optional collaborators. Nil fields disable the
// features that need them.
type Deps struct {
	// Questions supplies the pool and receives generated questions so
	// they outlive the session.
	Questions store.QuestionRepo

	// Courses supplies the mastery snapshot read at session start.
	Courses store.CourseRepo

	// Sessions records completed sessions.
	Sessions store.SessionRepo

	// Expander generates more questions on demand.
	Expander bankgen.Expander

	Logger *slog.Logger
}

// QuizScreen implements screen.Screen for one practice session.
type QuizScreen struct {
	course  qz.Course
	machine *sess.Machine
	deps    Deps
	logger  *slog.Logger

	choices components.MultiChoice
	input   components.TextInput

	// widgetKey identifies what the widgets were last built for.
	widgetKey string

	notice string
	errMsg string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a QuizScreen around an idle machine.
func New(course qz.Course, machine *sess.Machine, deps Deps) *QuizScreen {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizScreen{
		course:  course,
		machine: machine,
		deps:    deps,
		logger:  logger.With("component", "quiz-screen"),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.machine.Phase() == sess.PhaseIdle {
		if err := s.machine.Start(); err != nil && !errors.Is(err, qz.ErrNoQuestions) {
			s.errMsg = err.Error()
			return nil
		}
	}
	return s.syncWidgets()
}

func (s *QuizScreen) Title() string {
	return s.course.Name
}

// Status shows the running score.
func (s *QuizScreen) Status() string {
	v := s.machine.Snapshot()
	switch v.Phase {
	case sess.PhaseAnswering, sess.PhaseFeedback:
		return fmt.Sprintf("Q %d/%d  ✓ %d", v.Cursor+1, v.Total, v.Correct)
	case sess.PhaseCompleted, sess.PhaseReviewing:
		return fmt.Sprintf("%d%%", v.ScorePct)
	}
	return ""
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	v := s.machine.Snapshot()
	switch v.Phase {
	case sess.PhaseAnswering:
		if v.CurrentQuestion != nil && v.CurrentQuestion.IsMultipleChoice() {
			return []layout.KeyHint{
				{Key: "↑↓/1-9", Description: "Choose"},
				{Key: "Enter", Description: "Submit"},
				{Key: "Esc", Description: "Quit"},
			}
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	case sess.PhaseFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	case sess.PhaseCompleted:
		hints := []layout.KeyHint{}
		if v.CanReview {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Review missed"})
		}
		hints = append(hints, layout.KeyHint{Key: "N", Description: "New set"})
		if s.deps.Expander != nil {
			hints = append(hints, layout.KeyHint{Key: "G", Description: "Generate more"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	case sess.PhaseReviewing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "R", Description: "Summary"},
			{Key: "Esc", Description: "Back"},
		}
	case sess.PhaseEmpty:
		hints := []layout.KeyHint{{Key: "N", Description: "Try again"}}
		if s.deps.Expander != nil {
			hints = append(hints, layout.KeyHint{Key: "G", Description: "Generate questions"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return nil
}

// Close discards the session when the screen is popped.
func (s *QuizScreen) Close() {
	s.machine.Exit()
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case expansionDoneMsg:
		return s.handleExpansionDone(msg)

	case resultSavedMsg:
		if msg.Err != nil {
			s.logger.Warn("failed to save session result",
				"session_id", msg.SessionID,
				"error", msg.Err)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.machine.Phase() == sess.PhaseAnswering && !s.isMultipleChoice() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" || s.machine.Phase() == sess.PhaseClosed {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	s.notice = ""

	switch s.machine.Phase() {
	case sess.PhaseAnswering:
		if key == "enter" {
			return s, s.submit()
		}
		if s.isMultipleChoice() {
			s.choices, _ = s.choices.Update(msg)
			if opt, ok := s.choices.Current(); ok {
				s.report(s.machine.SelectChoice(opt.ID))
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.report(s.machine.SetAnswerText(s.input.Value()))
		return s, cmd

	case sess.PhaseFeedback:
		switch key {
		case "enter", "space", " ", "right":
			return s, s.next()
		}

	case sess.PhaseCompleted:
		switch key {
		case "r", "R":
			s.report(s.machine.ToggleReview())
			return s, s.syncWidgets()
		case "n", "N":
			return s, s.restart()
		case "g", "G":
			return s, s.expand()
		}

	case sess.PhaseReviewing:
		switch key {
		case "enter", "space", " ", "right":
			s.report(s.machine.Next())
			return s, s.syncWidgets()
		case "r", "R":
			s.report(s.machine.ToggleReview())
			return s, s.syncWidgets()
		}

	case sess.PhaseEmpty:
		switch key {
		case "n", "N":
			return s, s.restart()
		case "g", "G":
			return s, s.expand()
		}
	}

	return s, nil
}

func (s *QuizScreen) submit() tea.Cmd {
	if s.isMultipleChoice() {
		if opt, ok := s.choices.Current(); ok {
			if err := s.machine.SelectChoice(opt.ID); err != nil {
				s.report(err)
				return nil
			}
		}
	} else if err := s.machine.SetAnswerText(s.input.Value()); err != nil {
		s.report(err)
		return nil
	}

	if _, err := s.machine.Submit(); err != nil {
		s.report(err)
		return nil
	}
	return s.syncWidgets()
}

func (s *QuizScreen) next() tea.Cmd {
	if err := s.machine.Next(); err != nil {
		s.report(err)
		return nil
	}
	cmd := s.syncWidgets()
	if s.machine.Phase() == sess.PhaseCompleted {
		return tea.Batch(cmd, s.saveResult())
	}
	return cmd
}

func (s *QuizScreen) restart() tea.Cmd {
	s.report(s.machine.Restart())
	return s.syncWidgets()
}

// report turns a transition error into a notice for the student.
func (s *QuizScreen) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, qz.ErrEmptyResponse):
		if s.isMultipleChoice() {
			s.notice = "Choose an answer first."
		} else {
			s.notice = "Enter an answer first."
		}
	case errors.Is(err, qz.ErrNoQuestions):
		s.notice = "No questions are available for this selection."
	case errors.Is(err, qz.ErrNothingToReview):
		s.notice = "Nothing to review: every answer was correct."
	case errors.Is(err, qz.ErrExpansionPending):
		s.notice = "Already generating questions..."
	default:
		s.notice = err.Error()
	}
}

func (s *QuizScreen) isMultipleChoice() bool {
	v := s.machine.Snapshot()
	return v.CurrentQuestion != nil && v.CurrentQuestion.IsMultipleChoice()
}

// syncWidgets rebuilds the choice list or text input when the machine has
// moved to a different question or phase.
func (s *QuizScreen) syncWidgets() tea.Cmd {
	v := s.machine.Snapshot()

	key := fmt.Sprintf("%s/%s/%d", v.SessionID, v.Phase, v.Cursor)
	if v.Phase == sess.PhaseReviewing {
		key = fmt.Sprintf("%s/%s/%d", v.SessionID, v.Phase, v.ReviewIndex)
	}
	if key == s.widgetKey {
		return nil
	}
	s.widgetKey = key

	switch v.Phase {
	case sess.PhaseAnswering:
		q := v.CurrentQuestion
		if q.IsMultipleChoice() {
			// No option is picked until the student moves the cursor.
			s.choices = components.NewMultiChoice(options(q), v.Draft.ChosenID)
			return nil
		}
		s.input = components.NewTextInput("Type your answer...", 200)
		return s.input.Init()

	case sess.PhaseFeedback:
		q, a := v.CurrentQuestion, v.LastAttempt
		if q.IsMultipleChoice() {
			s.choices = components.NewMultiChoice(options(q), a.ChosenID).Reveal(q.CorrectAnswerID, a.ChosenID)
		} else {
			s.input.Lock(a.Correct)
		}

	case sess.PhaseReviewing:
		if item := v.ReviewItem; item != nil && item.Question.IsMultipleChoice() {
			s.choices = components.NewMultiChoice(options(&item.Question), "").
				Reveal(item.Question.CorrectAnswerID, item.Attempt.ChosenID)
		}
	}
	return nil
}

func options(q *qz.Question) []components.ChoiceOption {
	out := make([]components.ChoiceOption, len(q.Choices))
	for i, c := range q.Choices {
		out[i] = components.ChoiceOption{ID: c.ID, Text: c.Text}
	}
	return out
}

func (s *QuizScreen) saveResult() tea.Cmd {
	repo := s.deps.Sessions
	if repo == nil {
		return nil
	}
	v := s.machine.Snapshot()
	res := &store.SessionResult{
		ID:         v.SessionID,
		CourseID:   s.course.ID,
		Mode:       string(s.machine.Config().Mode()),
		Questions:  v.Total,
		Correct:    v.Correct,
		ScorePct:   v.ScorePct,
		StartedAt:  v.StartedAt,
		FinishedAt: time.Now(),
		Attempts:   v.Attempts,
	}
	return func() tea.Msg {
		err := repo.SaveResult(context.Background(), res)
		return resultSavedMsg{SessionID: res.ID, Err: err}
	}
}
