package session

import "github.com/abhisek/practiz/internal/quiz"

// ReviewItem pairs a missed attempt with the question it answered.
type ReviewItem struct {
	Attempt  quiz.Attempt
	Question quiz.Question
}

// Review is a read-only cursor over the missed attempts of a finished
// session, in attempt order.
type Review struct {
	items []ReviewItem
	index int
}

// NewReview collects the incorrect attempts and their questions.
func NewReview(attempts []quiz.Attempt, questions []quiz.Question) *Review {
	byID := make(map[string]quiz.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	r := &Review{}
	for _, a := range attempts {
		if a.Correct {
			continue
		}
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		r.items = append(r.items, ReviewItem{Attempt: a, Question: q})
	}
	return r
}

// Len returns the number of missed items.
func (r *Review) Len() int { return len(r.items) }

// Index returns the position of the current item.
func (r *Review) Index() int { return r.index }

// Current returns the item under the cursor.
func (r *Review) Current() (ReviewItem, bool) {
	if r.index < 0 || r.index >= len(r.items) {
		return ReviewItem{}, false
	}
	return r.items[r.index], true
}

// Next advances the cursor. It returns false when the cursor was already on
// the last item; the cursor is left unchanged in that case.
func (r *Review) Next() bool {
	if r.index+1 >= len(r.items) {
		return false
	}
	r.index++
	return true
}

// Items returns a copy of every missed item.
func (r *Review) Items() []ReviewItem {
	out := make([]ReviewItem, len(r.items))
	copy(out, r.items)
	return out
}
