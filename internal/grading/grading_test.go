package grading

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/practiz/internal/quiz"
)

func TestGradeChoice(t *testing.T) {
	q := &quiz.Question{
		Type:            quiz.TypeMultipleChoice,
		Choices:         []quiz.Choice{{ID: "a", Text: "Nucleus"}, {ID: "b", Text: "Membrane"}},
		CorrectAnswerID: "b",
	}

	if !GradeChoice(q, "b") {
		t.Error("expected b to be correct")
	}
	if GradeChoice(q, "a") {
		t.Error("expected a to be incorrect")
	}
}

func TestGradeShortAnswer(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		keywords    []string
		wantCorrect bool
		wantMatched []string
		wantMissing []string
	}{
		{
			name:        "single keyword substring",
			answer:      "the membrane selects what enters",
			keywords:    []string{"select"},
			wantCorrect: true,
			wantMatched: []string{"select"},
			wantMissing: []string{},
		},
		{
			name:        "any keyword suffices, missing still reported",
			answer:      "It is selectively permeable",
			keywords:    []string{"Permeable", "lipid", "bilayer"},
			wantCorrect: true,
			wantMatched: []string{"permeable"},
			wantMissing: []string{"lipid", "bilayer"},
		},
		{
			name:        "trims and lowercases answer",
			answer:      "   OSMOSIS  ",
			keywords:    []string{"osmosis"},
			wantCorrect: true,
			wantMatched: []string{"osmosis"},
			wantMissing: []string{},
		},
		{
			name:        "empty answer",
			answer:      "",
			keywords:    []string{"select", "permeable"},
			wantCorrect: false,
			wantMatched: []string{},
			wantMissing: []string{"select", "permeable"},
		},
		{
			name:        "no match",
			answer:      "it stores DNA",
			keywords:    []string{"select"},
			wantCorrect: false,
			wantMatched: []string{},
			wantMissing: []string{"select"},
		},
		{
			name:        "no keywords",
			answer:      "anything",
			keywords:    nil,
			wantCorrect: false,
			wantMatched: []string{},
			wantMissing: []string{},
		},
		{
			name:        "keyword spacing is kept",
			answer:      "An ion channel opens",
			keywords:    []string{" ION "},
			wantCorrect: true,
			wantMatched: []string{" ion "},
			wantMissing: []string{},
		},
		{
			name:        "padded keyword needs the padding",
			answer:      "ions cross",
			keywords:    []string{" ion "},
			wantCorrect: false,
			wantMatched: []string{},
			wantMissing: []string{" ion "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &quiz.Question{Type: quiz.TypeShortAnswer, CorrectKeywords: tt.keywords}
			got := GradeShortAnswer(tt.answer, q)
			assert.Equal(t, tt.wantCorrect, got.Correct)
			assert.Equal(t, tt.wantMatched, got.Matched)
			assert.Equal(t, tt.wantMissing, got.Missing)
		})
	}
}

func TestIsDegenerate(t *testing.T) {
	assert.True(t, IsDegenerate(&quiz.Question{Type: quiz.TypeShortAnswer}))
	assert.False(t, IsDegenerate(&quiz.Question{Type: quiz.TypeShortAnswer, CorrectKeywords: []string{" "}}))
	assert.False(t, IsDegenerate(&quiz.Question{Type: quiz.TypeShortAnswer, CorrectKeywords: []string{"x"}}))
	assert.False(t, IsDegenerate(&quiz.Question{Type: quiz.TypeMultipleChoice}))
}

func TestEngine_LogsDegenerateQuestion(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := NewEngine(logger)

	got := e.ShortAnswer(&quiz.Question{ID: "q9", Type: quiz.TypeShortAnswer}, "some answer")
	assert.False(t, got.Correct)

	out := buf.String()
	assert.Contains(t, out, "short-answer question has no keywords")
	assert.Contains(t, out, "question_id=q9")
}

func TestEngine_NoLogForHealthyQuestion(t *testing.T) {
	var buf bytes.Buffer
	e := NewEngine(slog.New(slog.NewTextHandler(&buf, nil)))

	got := e.ShortAnswer(&quiz.Question{ID: "q1", Type: quiz.TypeShortAnswer, CorrectKeywords: []string{"x"}}, "x")
	assert.True(t, got.Correct)
	assert.False(t, strings.Contains(buf.String(), "no keywords"))
}
