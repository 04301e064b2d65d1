// Package mastery tracks per-concept performance within a session and
// turns it into display-only mastery deltas.
package mastery

import (
	"math"

	"github.com/abhisek/practiz/internal/quiz"
)

// MaxMastery is the ceiling of the 0..100 mastery scale.
const MaxMastery = 100

// ConceptStat is the running correct/total count for one concept.
type ConceptStat struct {
	ConceptID string
	Correct   int
	Total     int
}

// Performance returns the percentage of correct attempts, 0 when unattempted.
func (s ConceptStat) Performance() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// Tracker accumulates ConceptStats from attempts. The zero value is ready
// to use.
type Tracker struct {
	stats map[string]*ConceptStat
	order []string
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Rebuild folds attempts into a fresh Tracker.
func Rebuild(attempts []quiz.Attempt) *Tracker {
	t := NewTracker()
	for _, a := range attempts {
		t.Record(a)
	}
	return t
}

// Record counts one attempt. Attempts without a concept id are ignored.
func (t *Tracker) Record(a quiz.Attempt) {
	if a.ConceptID == "" {
		return
	}
	if t.stats == nil {
		t.stats = make(map[string]*ConceptStat)
	}
	st, ok := t.stats[a.ConceptID]
	if !ok {
		st = &ConceptStat{ConceptID: a.ConceptID}
		t.stats[a.ConceptID] = st
		t.order = append(t.order, a.ConceptID)
	}
	st.Total++
	if a.Correct {
		st.Correct++
	}
}

// Stat returns the stat for a concept.
func (t *Tracker) Stat(conceptID string) (ConceptStat, bool) {
	st, ok := t.stats[conceptID]
	if !ok {
		return ConceptStat{}, false
	}
	return *st, true
}

// Stats returns every tracked concept in first-attempted order.
func (t *Tracker) Stats() []ConceptStat {
	out := make([]ConceptStat, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.stats[id])
	}
	return out
}

// Reset forgets every recorded attempt.
func (t *Tracker) Reset() {
	t.stats = nil
	t.order = nil
}

// Delta is the display-shaped mastery change for one concept.
type Delta struct {
	ConceptID      string
	TopicName      string
	Correct        int
	Total          int
	Performance    float64
	Delta          int
	CurrentMastery int
	NewMastery     int
}

// DeltaFor computes the coarse 0..10 step for a performance percentage.
func DeltaFor(performance float64) int {
	return int(math.Round(performance / 10))
}

// Deltas computes a Delta for every tracked concept, resolving current
// mastery from snap. Concepts whose delta is not positive are left out.
// Nothing is written back to snap.
func (t *Tracker) Deltas(snap CourseSnapshot) []Delta {
	var out []Delta
	for _, st := range t.Stats() {
		perf := st.Performance()
		d := DeltaFor(perf)
		if d <= 0 {
			continue
		}
		topic, current := snap.MasteryFor(st.ConceptID)
		name := topic
		if name == "" {
			name = st.ConceptID
		}
		out = append(out, Delta{
			ConceptID:      st.ConceptID,
			TopicName:      name,
			Correct:        st.Correct,
			Total:          st.Total,
			Performance:    perf,
			Delta:          d,
			CurrentMastery: current,
			NewMastery:     min(MaxMastery, current+d),
		})
	}
	return out
}
