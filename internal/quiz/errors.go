package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestions is returned when selection yields nothing for the
	// requested course and concepts. The caller should offer another action
	// such as generating more questions.
	ErrNoQuestions = errors.New("no questions available for this course and concepts")

	// ErrEmptyResponse is returned when submit is called before a choice is
	// selected or with blank free text.
	ErrEmptyResponse = errors.New("no answer provided")

	// ErrAlreadyAnswered is returned when the current question already has an attempt.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrInvalidTransition is returned when a control is used in a phase that
	// does not accept it.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrNothingToReview is returned when review is requested with no missed questions.
	ErrNothingToReview = errors.New("no missed questions to review")

	// ErrExpansionPending is returned when a bank expansion is requested while
	// another one is still outstanding.
	ErrExpansionPending = errors.New("question bank expansion already in progress")

	// ErrSessionClosed is returned by every control after exit.
	ErrSessionClosed = errors.New("session closed")

	// ErrUnknownChoice is returned when a choice id does not belong to the question.
	ErrUnknownChoice = errors.New("unknown choice")
)

// ExternalServiceError wraps a failure from a collaborator outside the core,
// such as the question generator. Session state is never modified when one
// of these is returned.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// DegenerateQuestionError describes a short-answer question with no
// configured keywords. Such questions always grade incorrect; the error is
// logged as a data-quality issue and never returned to the student.
type DegenerateQuestionError struct {
	QuestionID string
}

func (e *DegenerateQuestionError) Error() string {
	return fmt.Sprintf("short-answer question %q has no keywords", e.QuestionID)
}
