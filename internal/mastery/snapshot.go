package mastery

import (
	"slices"
	"strings"
)

// Topic is one externally owned mastery estimate for a course topic.
type Topic struct {
	Name    string `json:"name"`
	Mastery int    `json:"mastery"`
}

// CourseSnapshot is the course's mastery state as read at session start.
type CourseSnapshot struct {
	MasteryTopics []Topic `json:"mastery_topics"`
}

// Clone returns a copy that does not share storage with s.
func (s CourseSnapshot) Clone() CourseSnapshot {
	return CourseSnapshot{MasteryTopics: slices.Clone(s.MasteryTopics)}
}

// MasteryFor finds the topic whose slugified name equals conceptID and
// returns its name and mastery. Unmatched concepts report 0.
func (s CourseSnapshot) MasteryFor(conceptID string) (string, int) {
	for _, t := range s.MasteryTopics {
		if Slugify(t.Name) == conceptID {
			return t.Name, clamp(t.Mastery)
		}
	}
	return "", 0
}

// Slugify lowercases a topic name and turns each space into a hyphen,
// e.g. "Cell Membrane" becomes "cell-membrane". Runs of spaces are kept
// one for one, so "Cell  Membrane" is a different concept.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

func clamp(m int) int {
	return max(0, min(MaxMastery, m))
}
