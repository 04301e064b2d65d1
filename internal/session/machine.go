// Package session drives a bounded practice session: it selects questions,
// walks the student through answer and feedback, grades each submission
// and offers a review of missed questions once the session is complete.
//
// All transitions are synchronous and expect a single caller. The only
// asynchronous collaborator, bank expansion, is bracketed by
// BeginExpansion and FinishExpansion.
package session

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/practiz/internal/grading"
	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/quiz"
	"github.com/abhisek/practiz/internal/selection"
)

// Selector draws a session's questions from a pool.
type Selector interface {
	Select(pool []quiz.Question, cfg selection.Config) []quiz.Question
}

// Grader evaluates one submitted answer.
type Grader interface {
	Choice(q *quiz.Question, chosenID string) bool
	ShortAnswer(q *quiz.Question, userText string) quiz.GradingResult
}

// Options configures a Machine.
type Options struct {
	// Pool is every question the session may draw from.
	Pool []quiz.Question

	// Config is reused unchanged on every restart.
	Config selection.Config

	// Selector defaults to a randomly seeded selection.Selector.
	Selector Selector

	// Grader defaults to a grading.Engine using Logger.
	Grader Grader

	// Course is the mastery snapshot read at session start. The machine
	// keeps its own copy and never writes to it.
	Course mastery.CourseSnapshot

	Logger *slog.Logger

	// NewID issues session ids. Defaults to NewSessionID.
	NewID func(now time.Time) string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Draft is the transient, per-question input the student has entered but
// not yet submitted.
type Draft struct {
	ChosenID   string
	AnswerText string
}

// Machine is the session state machine. Construct it with New and drive it
// only through its methods.
type Machine struct {
	pool     []quiz.Question
	cfg      selection.Config
	selector Selector
	grader   Grader
	course   mastery.CourseSnapshot
	logger   *slog.Logger
	newID    func(time.Time) string
	now      func() time.Time

	id        string
	questions []quiz.Question
	cursor    int
	attempts  []quiz.Attempt
	startedAt time.Time
	completed bool
	phase     Phase
	draft     Draft
	tracker   *mastery.Tracker
	review    *Review
	expanding bool
}

// New builds a Machine in PhaseIdle. Call Start to select the first set of
// questions.
func New(opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg.Limit <= 0 {
		cfg.Limit = selection.DefaultLimit
	}
	cfg.TargetConceptIDs = slices.Clone(cfg.TargetConceptIDs)

	m := &Machine{
		pool:     slices.Clone(opts.Pool),
		cfg:      cfg,
		selector: opts.Selector,
		grader:   opts.Grader,
		course:   opts.Course.Clone(),
		logger:   logger.With("component", "session"),
		newID:    opts.NewID,
		now:      opts.Now,
		tracker:  mastery.NewTracker(),
	}
	if m.selector == nil {
		m.selector = selection.New(nil)
	}
	if m.grader == nil {
		m.grader = grading.NewEngine(logger)
	}
	if m.newID == nil {
		m.newID = NewSessionID
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// NewSessionID returns an opaque token made of the start time and a random
// suffix. It is for display and audit only.
func NewSessionID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// Start selects the first set of questions. It returns quiz.ErrNoQuestions
// and enters PhaseEmpty when nothing could be selected.
func (m *Machine) Start() error {
	switch m.phase {
	case PhaseClosed:
		return quiz.ErrSessionClosed
	case PhaseIdle:
	default:
		return fmt.Errorf("%w: start from %s", quiz.ErrInvalidTransition, m.phase)
	}
	return m.begin("session started")
}

// Restart selects a fresh set of questions with the same configuration and
// issues a new session id. It is allowed once the session is completed, or
// from the empty state.
func (m *Machine) Restart() error {
	switch m.phase {
	case PhaseClosed:
		return quiz.ErrSessionClosed
	case PhaseCompleted, PhaseEmpty:
	default:
		return fmt.Errorf("%w: restart from %s", quiz.ErrInvalidTransition, m.phase)
	}
	return m.begin("session restarted")
}

func (m *Machine) begin(msg string) error {
	now := m.now()
	m.id = m.newID(now)
	m.startedAt = now
	m.questions = m.selector.Select(m.pool, m.cfg)
	m.cursor = 0
	m.attempts = nil
	m.completed = false
	m.draft = Draft{}
	m.review = nil
	m.tracker.Reset()

	if len(m.questions) == 0 {
		m.phase = PhaseEmpty
		m.logger.Info("no questions selected",
			"session_id", m.id,
			"pool", len(m.pool),
			"mode", m.cfg.Mode())
		return quiz.ErrNoQuestions
	}

	m.phase = PhaseAnswering
	m.logger.Info(msg,
		"session_id", m.id,
		"questions", len(m.questions),
		"mode", m.cfg.Mode())
	return nil
}

// SelectChoice records the student's pending choice for a multiple-choice
// question. The choice may be changed freely until Submit.
func (m *Machine) SelectChoice(choiceID string) error {
	q, err := m.answerable()
	if err != nil {
		return err
	}
	if !q.IsMultipleChoice() {
		return fmt.Errorf("%w: question %q takes a text answer", quiz.ErrInvalidTransition, q.ID)
	}
	if _, ok := q.Choice(choiceID); !ok {
		return fmt.Errorf("%w: %q", quiz.ErrUnknownChoice, choiceID)
	}
	m.draft.ChosenID = choiceID
	return nil
}

// SetAnswerText records the student's pending free-text answer.
func (m *Machine) SetAnswerText(text string) error {
	q, err := m.answerable()
	if err != nil {
		return err
	}
	if q.IsMultipleChoice() {
		return fmt.Errorf("%w: question %q takes a choice", quiz.ErrInvalidTransition, q.ID)
	}
	m.draft.AnswerText = text
	return nil
}

func (m *Machine) answerable() (*quiz.Question, error) {
	switch m.phase {
	case PhaseClosed:
		return nil, quiz.ErrSessionClosed
	case PhaseFeedback:
		return nil, quiz.ErrAlreadyAnswered
	case PhaseAnswering:
		return &m.questions[m.cursor], nil
	default:
		return nil, fmt.Errorf("%w: answer in %s", quiz.ErrInvalidTransition, m.phase)
	}
}

// Submit grades the pending answer, appends an Attempt and moves to
// PhaseFeedback. An empty response is rejected with quiz.ErrEmptyResponse
// and leaves the state unchanged.
func (m *Machine) Submit() (quiz.Attempt, error) {
	q, err := m.answerable()
	if err != nil {
		return quiz.Attempt{}, err
	}

	a := quiz.Attempt{
		QuestionID: q.ID,
		ConceptID:  q.ConceptID,
	}

	if q.IsMultipleChoice() {
		if m.draft.ChosenID == "" {
			return quiz.Attempt{}, quiz.ErrEmptyResponse
		}
		a.ChosenID = m.draft.ChosenID
		a.Correct = m.grader.Choice(q, a.ChosenID)
	} else {
		if strings.TrimSpace(m.draft.AnswerText) == "" {
			return quiz.Attempt{}, quiz.ErrEmptyResponse
		}
		a.UserAnswer = m.draft.AnswerText
		res := m.grader.ShortAnswer(q, a.UserAnswer)
		a.Correct = res.Correct
		a.Grading = &res
	}

	m.attempts = append(m.attempts, a)
	m.tracker.Record(a)
	m.phase = PhaseFeedback
	return a, nil
}

// Next advances out of feedback or through the review list.
//
// From feedback it moves to the next question, or to PhaseCompleted after
// the last one. While reviewing it moves to the next missed item, or back
// to PhaseCompleted after the last one.
func (m *Machine) Next() error {
	switch m.phase {
	case PhaseClosed:
		return quiz.ErrSessionClosed

	case PhaseFeedback:
		m.draft = Draft{}
		if m.cursor < len(m.questions)-1 {
			m.cursor++
			m.phase = PhaseAnswering
			return nil
		}
		m.completed = true
		m.phase = PhaseCompleted
		m.logger.Info("session completed",
			"session_id", m.id,
			"questions", len(m.questions),
			"correct", m.correctCount(),
			"score_pct", m.ScorePct(),
			"duration", m.now().Sub(m.startedAt))
		return nil

	case PhaseReviewing:
		if !m.review.Next() {
			m.review = nil
			m.phase = PhaseCompleted
		}
		return nil

	default:
		return fmt.Errorf("%w: next from %s", quiz.ErrInvalidTransition, m.phase)
	}
}

// CanReview reports whether the session is complete with at least one
// missed question.
func (m *Machine) CanReview() bool {
	if m.phase != PhaseCompleted && m.phase != PhaseReviewing {
		return false
	}
	return m.correctCount() < len(m.attempts)
}

// ToggleReview enters review from PhaseCompleted, always starting at the
// first missed item, or leaves review back to PhaseCompleted.
func (m *Machine) ToggleReview() error {
	switch m.phase {
	case PhaseClosed:
		return quiz.ErrSessionClosed
	case PhaseReviewing:
		m.review = nil
		m.phase = PhaseCompleted
		return nil
	case PhaseCompleted:
		if !m.CanReview() {
			return quiz.ErrNothingToReview
		}
		m.review = NewReview(m.attempts, m.questions)
		m.phase = PhaseReviewing
		return nil
	default:
		return fmt.Errorf("%w: review from %s", quiz.ErrInvalidTransition, m.phase)
	}
}

// Exit discards all session state. Every later control returns
// quiz.ErrSessionClosed.
func (m *Machine) Exit() {
	if m.phase == PhaseClosed {
		return
	}
	m.logger.Debug("session exited", "session_id", m.id, "phase", m.phase)
	*m = Machine{phase: PhaseClosed, logger: m.logger}
}

// ScorePct returns the rounded percentage of correct attempts over the
// session's question count, or 0 when there are no questions.
func (m *Machine) ScorePct() int {
	return scorePct(m.correctCount(), len(m.questions))
}

func scorePct(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func (m *Machine) correctCount() int {
	n := 0
	for _, a := range m.attempts {
		if a.Correct {
			n++
		}
	}
	return n
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// ID returns the current session id.
func (m *Machine) ID() string { return m.id }

// Config returns the selection config used for every (re)start.
func (m *Machine) Config() selection.Config { return m.cfg }

// Pool returns a copy of the pool the machine selects from.
func (m *Machine) Pool() []quiz.Question { return slices.Clone(m.pool) }

// Course returns a copy of the mastery snapshot taken at construction.
func (m *Machine) Course() mastery.CourseSnapshot { return m.course.Clone() }
