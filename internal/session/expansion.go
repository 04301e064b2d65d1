package session

import (
	"github.com/abhisek/practiz/internal/quiz"
)

// BeginExpansion marks a bank expansion as outstanding. Only one may be in
// flight; a second call returns quiz.ErrExpansionPending.
func (m *Machine) BeginExpansion() error {
	if m.phase == PhaseClosed {
		return quiz.ErrSessionClosed
	}
	if m.expanding {
		return quiz.ErrExpansionPending
	}
	m.expanding = true
	return nil
}

// Expanding reports whether an expansion is outstanding.
func (m *Machine) Expanding() bool { return m.expanding }

// FinishExpansion settles the outstanding expansion and returns how many
// new questions joined the pool.
//
// A failed call returns a *quiz.ExternalServiceError and leaves the session
// untouched. New questions are added to the pool; the current question
// list is never spliced. From PhaseEmpty or PhaseCompleted the machine
// restarts against the larger pool, otherwise the questions wait for the
// next restart.
func (m *Machine) FinishExpansion(questions []quiz.Question, err error) (int, error) {
	if m.phase == PhaseClosed {
		return 0, quiz.ErrSessionClosed
	}
	m.expanding = false

	if err != nil {
		m.logger.Warn("question bank expansion failed",
			"session_id", m.id,
			"error", err)
		return 0, &quiz.ExternalServiceError{Op: "expand question bank", Err: err}
	}

	seen := make(map[string]bool, len(m.pool))
	for _, q := range m.pool {
		seen[q.ID] = true
	}
	added := 0
	for _, q := range questions {
		if q.ID == "" || seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		m.pool = append(m.pool, q)
		added++
	}

	if added == 0 {
		return 0, nil
	}

	m.logger.Info("question bank expanded",
		"session_id", m.id,
		"added", added,
		"pool", len(m.pool))

	if m.phase == PhaseEmpty || m.phase == PhaseCompleted {
		return added, m.Restart()
	}
	return added, nil
}
