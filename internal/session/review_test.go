package session

import (
	"testing"

	"github.com/abhisek/practiz/internal/quiz"
)

func TestNewReview_KeepsAttemptOrder(t *testing.T) {
	questions := []quiz.Question{mcQ("q1", "a"), mcQ("q2", "a"), mcQ("q3", "b")}
	attempts := []quiz.Attempt{
		{QuestionID: "q3", Correct: false},
		{QuestionID: "q1", Correct: true},
		{QuestionID: "q2", Correct: false},
	}

	r := NewReview(attempts, questions)
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	item, ok := r.Current()
	if !ok || item.Question.ID != "q3" {
		t.Fatalf("first item = %q, want q3", item.Question.ID)
	}
	if !r.Next() {
		t.Fatal("expected Next to advance to the second item")
	}
	item, _ = r.Current()
	if item.Question.ID != "q2" {
		t.Errorf("second item = %q, want q2", item.Question.ID)
	}
	if r.Next() {
		t.Error("expected Next to report the end of the list")
	}
	if r.Index() != 1 {
		t.Errorf("Index() = %d, want 1 after the last Next", r.Index())
	}
}

func TestNewReview_Empty(t *testing.T) {
	r := NewReview([]quiz.Attempt{{QuestionID: "q1", Correct: true}}, []quiz.Question{mcQ("q1", "a")})
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	if _, ok := r.Current(); ok {
		t.Error("Current() on an empty review should report false")
	}
}
