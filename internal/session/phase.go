package session

// Phase represents the current phase of a session.
type Phase int

const (
	PhaseIdle      Phase = iota // Built but not started
	PhaseAnswering              // Waiting for an answer to the current question
	PhaseFeedback               // Showing the graded answer
	PhaseCompleted              // Every question answered; summary shown
	PhaseReviewing              // Walking through missed questions
	PhaseEmpty                  // Selection returned no questions
	PhaseClosed                 // Exited; state discarded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnswering:
		return "answering"
	case PhaseFeedback:
		return "feedback"
	case PhaseCompleted:
		return "completed"
	case PhaseReviewing:
		return "reviewing"
	case PhaseEmpty:
		return "empty"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}
