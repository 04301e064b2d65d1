package quiz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("question_type", validateQuestionType)
	v.RegisterStructValidation(questionStructLevel, Question{})
	return v
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch QuestionType(fl.Field().String()) {
	case TypeMultipleChoice, TypeShortAnswer:
		return true
	}
	return false
}

// questionStructLevel enforces the rules that depend on the question type.
func questionStructLevel(sl validator.StructLevel) {
	q := sl.Current().Interface().(Question)

	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Choices) < 2 {
			sl.ReportError(q.Choices, "choices", "Choices", "min_choices", "2")
			return
		}
		seen := make(map[string]bool, len(q.Choices))
		for _, c := range q.Choices {
			if seen[c.ID] {
				sl.ReportError(q.Choices, "choices", "Choices", "unique_choice_ids", c.ID)
				return
			}
			seen[c.ID] = true
		}
		if !seen[q.CorrectAnswerID] {
			sl.ReportError(q.CorrectAnswerID, "correct_answer_id", "CorrectAnswerID", "in_choices", "")
		}
		if len(q.CorrectKeywords) > 0 {
			sl.ReportError(q.CorrectKeywords, "correct_keywords", "CorrectKeywords", "mc_no_keywords", "")
		}

	case TypeShortAnswer:
		if len(q.Choices) > 0 || q.CorrectAnswerID != "" {
			sl.ReportError(q.Choices, "choices", "Choices", "short_answer_no_choices", "")
		}
		if !hasKeyword(q.CorrectKeywords) {
			sl.ReportError(q.CorrectKeywords, "correct_keywords", "CorrectKeywords", "min_keywords", "1")
		}
	}
}

func hasKeyword(keywords []string) bool {
	for _, k := range keywords {
		if strings.TrimSpace(k) != "" {
			return true
		}
	}
	return false
}

// ValidateQuestion checks a question before it enters the bank.
// Grading tolerates questions that fail these checks; import and
// generation do not.
func ValidateQuestion(q Question) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("question %q: %w", q.ID, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s: %s", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return &InvalidQuestionError{QuestionID: q.ID, Problems: msgs}
}

// InvalidQuestionError lists every rule a question broke.
type InvalidQuestionError struct {
	QuestionID string
	Problems   []string
}

func (e *InvalidQuestionError) Error() string {
	return fmt.Sprintf("invalid question %q: %s", e.QuestionID, strings.Join(e.Problems, "; "))
}

// ValidateCourse checks the course header of a bank file.
func ValidateCourse(c Course) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid course: %w", err)
	}
	return nil
}
