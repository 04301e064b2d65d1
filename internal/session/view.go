package session

import (
	"slices"
	"time"

	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/quiz"
)

// View is a read-only snapshot of the machine for the hosting layer.
// It shares no mutable storage with the machine.
type View struct {
	Phase     Phase
	SessionID string
	StartedAt time.Time

	// CurrentQuestion is the question at the cursor while answering or
	// showing feedback, nil otherwise.
	CurrentQuestion *quiz.Question
	Cursor          int
	Total           int

	Draft Draft

	// LastAttempt is the attempt being shown in feedback.
	LastAttempt *quiz.Attempt

	Attempts []quiz.Attempt
	ScorePct int
	Correct  int

	// MasteryDeltas is populated once the session is completed.
	MasteryDeltas []mastery.Delta

	CanReview bool

	// Review fields are set only while reviewing.
	ReviewItem  *ReviewItem
	ReviewIndex int
	ReviewTotal int

	Expanding bool
}

// Completed reports whether every question has been answered.
func (v View) Completed() bool {
	return v.Phase == PhaseCompleted || v.Phase == PhaseReviewing
}

// Snapshot returns the current View.
func (m *Machine) Snapshot() View {
	v := View{
		Phase:     m.phase,
		SessionID: m.id,
		StartedAt: m.startedAt,
		Cursor:    m.cursor,
		Total:     len(m.questions),
		Draft:     m.draft,
		Attempts:  slices.Clone(m.attempts),
		ScorePct:  m.ScorePct(),
		Correct:   m.correctCount(),
		CanReview: m.CanReview(),
		Expanding: m.expanding,
	}

	switch m.phase {
	case PhaseAnswering, PhaseFeedback:
		q := m.questions[m.cursor]
		v.CurrentQuestion = &q
		if m.phase == PhaseFeedback && len(m.attempts) > 0 {
			a := m.attempts[len(m.attempts)-1]
			v.LastAttempt = &a
		}

	case PhaseReviewing:
		if item, ok := m.review.Current(); ok {
			v.ReviewItem = &item
		}
		v.ReviewIndex = m.review.Index()
		v.ReviewTotal = m.review.Len()
	}

	if m.completed {
		v.MasteryDeltas = m.tracker.Deltas(m.course)
	}
	return v
}
