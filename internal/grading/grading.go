// Package grading evaluates a submitted answer against one question.
package grading

import (
	"log/slog"
	"strings"

	"github.com/abhisek/practiz/internal/quiz"
)

// GradeChoice reports whether chosenID is the question's correct choice.
// Callers must not submit an empty choice.
func GradeChoice(q *quiz.Question, chosenID string) bool {
	return chosenID == q.CorrectAnswerID
}

// GradeShortAnswer checks the free-text answer for keyword presence.
//
// Normalization rules:
//   - The answer is trimmed and lowercased
//   - Keywords are lowercased and otherwise used as stored
//   - A keyword matches when it occurs anywhere in the answer
//   - Any single match makes the answer correct
//
// Missing keywords are returned even for a correct answer. A question with
// no keywords always grades incorrect, as does an empty answer.
func GradeShortAnswer(userText string, q *quiz.Question) quiz.GradingResult {
	text := strings.ToLower(strings.TrimSpace(userText))
	result := quiz.GradingResult{
		Matched: []string{},
		Missing: []string{},
	}

	for _, kw := range q.CorrectKeywords {
		kw = strings.ToLower(kw)
		if text != "" && strings.Contains(text, kw) {
			result.Matched = append(result.Matched, kw)
		} else {
			result.Missing = append(result.Missing, kw)
		}
	}

	result.Correct = len(result.Matched) > 0
	return result
}

// IsDegenerate reports whether a short-answer question cannot be answered
// correctly because it has no keywords.
func IsDegenerate(q *quiz.Question) bool {
	return q.Type == quiz.TypeShortAnswer && len(q.CorrectKeywords) == 0
}

// Engine grades submissions and logs data-quality problems it runs into.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an Engine. A nil logger uses slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With("component", "grading")}
}

// Choice grades a multiple-choice submission.
func (e *Engine) Choice(q *quiz.Question, chosenID string) bool {
	return GradeChoice(q, chosenID)
}

// ShortAnswer grades a free-text submission. Degenerate questions are
// graded incorrect and logged rather than returned as errors.
func (e *Engine) ShortAnswer(q *quiz.Question, userText string) quiz.GradingResult {
	if IsDegenerate(q) {
		err := &quiz.DegenerateQuestionError{QuestionID: q.ID}
		e.logger.Warn("short-answer question has no keywords",
			"question_id", q.ID,
			"error", err)
	}
	return GradeShortAnswer(userText, q)
}
