package selection

import (
	"errors"
	"slices"

	"github.com/abhisek/practiz/internal/quiz"
)

// Mode is the strategy a Config resolves to.
type Mode string

const (
	ModeFocused Mode = "focused"
	ModeMixed   Mode = "mixed"
	ModeRandom  Mode = "random"
)

// DefaultLimit is the session length used when none is configured.
const DefaultLimit = 10

// Config controls how a session's questions are drawn from the pool.
type Config struct {
	// TargetConceptIDs restricts the session to these concepts, topping up
	// from other concepts when they cannot fill Limit.
	TargetConceptIDs []string

	// Limit is the maximum number of questions in the session.
	Limit int

	// MixConcepts, when at least 1 and no targets are set, draws roughly
	// even shares from up to this many randomly chosen concepts.
	MixConcepts int
}

// Mode returns the active strategy. Focused wins over Mixed, which wins
// over Random.
func (c Config) Mode() Mode {
	switch {
	case len(c.TargetConceptIDs) > 0:
		return ModeFocused
	case c.MixConcepts >= 1:
		return ModeMixed
	default:
		return ModeRandom
	}
}

// Validate reports configuration mistakes.
func (c Config) Validate() error {
	if c.Limit <= 0 {
		return errors.New("limit must be greater than zero")
	}
	if c.MixConcepts < 0 {
		return errors.New("mix concepts must not be negative")
	}
	return nil
}

// Selector draws bounded, shuffled question lists from a pool.
type Selector struct {
	src Source
}

// New creates a Selector. A nil source falls back to DefaultSource.
func New(src Source) *Selector {
	if src == nil {
		src = DefaultSource()
	}
	return &Selector{src: src}
}

// Select returns at most cfg.Limit questions from pool, with no duplicate
// ids. The pool slice is never modified. A non-positive limit selects nothing.
func (s *Selector) Select(pool []quiz.Question, cfg Config) []quiz.Question {
	if cfg.Limit <= 0 || len(pool) == 0 {
		return nil
	}
	pool = uniqueByID(pool)

	switch cfg.Mode() {
	case ModeFocused:
		return s.selectFocused(pool, cfg)
	case ModeMixed:
		return s.selectMixed(pool, cfg)
	default:
		return s.selectRandom(pool, cfg.Limit)
	}
}

// selectFocused prefers the target concepts and fills any shortfall from
// the rest of the pool.
func (s *Selector) selectFocused(pool []quiz.Question, cfg Config) []quiz.Question {
	targets := make(map[string]bool, len(cfg.TargetConceptIDs))
	for _, id := range cfg.TargetConceptIDs {
		targets[id] = true
	}

	var focused, others []quiz.Question
	for _, q := range pool {
		if targets[q.ConceptID] {
			focused = append(focused, q)
		} else {
			others = append(others, q)
		}
	}

	shuffle(s.src, focused)
	if len(focused) >= cfg.Limit {
		return focused[:cfg.Limit]
	}

	shuffle(s.src, others)
	need := min(cfg.Limit-len(focused), len(others))
	result := append(focused, others[:need]...)
	shuffle(s.src, result)
	return result
}

// selectMixed spreads the session over up to cfg.MixConcepts concepts.
func (s *Selector) selectMixed(pool []quiz.Question, cfg Config) []quiz.Question {
	byConcept := make(map[string][]quiz.Question)
	var concepts []string
	for _, q := range pool {
		if _, ok := byConcept[q.ConceptID]; !ok {
			concepts = append(concepts, q.ConceptID)
		}
		byConcept[q.ConceptID] = append(byConcept[q.ConceptID], q)
	}

	// Pool order is first-seen order, so the shuffle alone decides which
	// concepts are picked.
	shuffle(s.src, concepts)
	chosen := concepts[:min(cfg.MixConcepts, len(concepts))]

	perConcept := ceilDiv(cfg.Limit, len(chosen))

	var result []quiz.Question
	for _, id := range chosen {
		qs := byConcept[id]
		shuffle(s.src, qs)
		result = append(result, qs[:min(perConcept, len(qs))]...)
	}

	shuffle(s.src, result)
	if len(result) > cfg.Limit {
		result = result[:cfg.Limit]
	}
	return result
}

func (s *Selector) selectRandom(pool []quiz.Question, limit int) []quiz.Question {
	all := slices.Clone(pool)
	shuffle(s.src, all)
	return all[:min(limit, len(all))]
}

func shuffle[T any](src Source, x []T) {
	src.Shuffle(len(x), func(i, j int) { x[i], x[j] = x[j], x[i] })
}

// uniqueByID returns a copy of pool keeping the first question for each id.
func uniqueByID(pool []quiz.Question) []quiz.Question {
	seen := make(map[string]bool, len(pool))
	out := make([]quiz.Question, 0, len(pool))
	for _, q := range pool {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
