package quiz

import (
	qz "github.com/abhisek/practiz/internal/quiz"
)

// expansionDoneMsg is sent when a bank expansion call returns.
type expansionDoneMsg struct {
	Questions []qz.Question
	Rejected  int
	Err       error
}

// resultSavedMsg is sent when a completed session has been persisted.
type resultSavedMsg struct {
	SessionID string
	Err       error
}
