package quiz

// QuestionType describes how the student answers a question.
type QuestionType string

const (
	// TypeMultipleChoice means the student picks one of the question's choices.
	TypeMultipleChoice QuestionType = "multiple_choice"

	// TypeShortAnswer means the student types free text that is graded by keywords.
	TypeShortAnswer QuestionType = "short_answer"
)

// Choice is one option of a multiple-choice question.
type Choice struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// Question is a single practice question tagged with a course and a concept.
// Questions are treated as immutable once selected into a session.
type Question struct {
	ID        string       `json:"id" validate:"required"`
	CourseID  string       `json:"course_id"`
	ConceptID string       `json:"concept_id" validate:"required"`
	Type      QuestionType `json:"type" validate:"required,question_type"`

	// Prompt is the question text shown to the student.
	Prompt string `json:"prompt" validate:"required,max=2000"`

	// Choices and CorrectAnswerID are only set for multiple-choice questions.
	Choices         []Choice `json:"choices,omitempty" validate:"omitempty,dive"`
	CorrectAnswerID string   `json:"correct_answer_id,omitempty"`

	// CorrectKeywords is only set for short-answer questions. Any single
	// keyword appearing in the answer makes it correct.
	CorrectKeywords []string `json:"correct_keywords,omitempty"`

	// Rationale explains the correct answer and is shown as feedback.
	Rationale string `json:"rationale,omitempty"`

	// MisconceptionHint names the mistake a wrong answer usually reflects.
	MisconceptionHint string `json:"misconception_hint,omitempty"`

	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

// IsMultipleChoice reports whether q is answered by picking a choice.
func (q Question) IsMultipleChoice() bool {
	return q.Type == TypeMultipleChoice
}

// Choice returns the choice with the given id.
func (q Question) Choice(id string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// CorrectChoice returns the choice marked as the correct answer.
func (q Question) CorrectChoice() (Choice, bool) {
	return q.Choice(q.CorrectAnswerID)
}

// GradingResult reports which keywords a short answer matched.
// Missing is populated even when the answer is correct.
type GradingResult struct {
	Correct bool     `json:"correct"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Attempt is one graded response to one question within a session.
// Attempts are append-only and never mutated after creation.
type Attempt struct {
	QuestionID string `json:"question_id"`
	ConceptID  string `json:"concept_id"`

	// ChosenID is set only for multiple-choice attempts.
	ChosenID string `json:"chosen_id,omitempty"`

	// UserAnswer is set only for short-answer attempts.
	UserAnswer string `json:"user_answer,omitempty"`

	Correct bool `json:"correct"`

	// Grading is set only for short-answer attempts.
	Grading *GradingResult `json:"grading_result,omitempty"`
}

// Course identifies a course that questions belong to.
type Course struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}
