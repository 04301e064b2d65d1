package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/quiz"
)

func makePool(perConcept map[string]int) []quiz.Question {
	var pool []quiz.Question
	for _, concept := range []string{"cell-membrane", "memory", "mitosis", "osmosis"} {
		for i := 0; i < perConcept[concept]; i++ {
			pool = append(pool, quiz.Question{
				ID:        fmt.Sprintf("%s-%d", concept, i),
				ConceptID: concept,
				Type:      quiz.TypeShortAnswer,
			})
		}
	}
	return pool
}

func ids(qs []quiz.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestConfig_Mode(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Mode
	}{
		{"targets win", Config{TargetConceptIDs: []string{"a"}, MixConcepts: 2}, ModeFocused},
		{"mix", Config{MixConcepts: 1}, ModeMixed},
		{"default random", Config{}, ModeRandom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Mode(); got != tt.want {
				t.Errorf("Mode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Limit: 5}.Validate())
	assert.Error(t, Config{Limit: 0}.Validate())
	assert.Error(t, Config{Limit: 3, MixConcepts: -1}.Validate())
}

func TestSelect_Properties(t *testing.T) {
	pool := makePool(map[string]int{"cell-membrane": 4, "memory": 3, "mitosis": 6, "osmosis": 1})
	inPool := make(map[string]bool)
	for _, q := range pool {
		inPool[q.ID] = true
	}

	configs := []Config{
		{Limit: 5},
		{Limit: 50},
		{Limit: 1},
		{Limit: 7, MixConcepts: 2},
		{Limit: 7, MixConcepts: 10},
		{Limit: 3, TargetConceptIDs: []string{"memory"}},
		{Limit: 9, TargetConceptIDs: []string{"osmosis"}},
	}

	for seed := uint64(0); seed < 20; seed++ {
		s := New(NewSource(seed))
		for _, cfg := range configs {
			got := s.Select(pool, cfg)
			require.LessOrEqual(t, len(got), min(cfg.Limit, len(pool)), "cfg=%+v", cfg)

			seen := make(map[string]bool)
			for _, q := range got {
				require.True(t, inPool[q.ID], "selected %q not in pool", q.ID)
				require.False(t, seen[q.ID], "duplicate %q", q.ID)
				seen[q.ID] = true
			}
		}
	}
}

func TestSelect_DoesNotMutatePool(t *testing.T) {
	pool := makePool(map[string]int{"memory": 5, "mitosis": 5})
	before := ids(pool)

	New(NewSource(7)).Select(pool, Config{Limit: 4, MixConcepts: 2})
	New(NewSource(7)).Select(pool, Config{Limit: 4})

	assert.Equal(t, before, ids(pool))
}

func TestSelect_DuplicatePoolIDs(t *testing.T) {
	pool := []quiz.Question{
		{ID: "q1", ConceptID: "a"},
		{ID: "q1", ConceptID: "a"},
		{ID: "q2", ConceptID: "a"},
	}
	got := New(NewSource(1)).Select(pool, Config{Limit: 10})
	assert.ElementsMatch(t, []string{"q1", "q2"}, ids(got))
}

func TestSelect_NonPositiveLimit(t *testing.T) {
	pool := makePool(map[string]int{"memory": 3})
	assert.Empty(t, New(NewSource(1)).Select(pool, Config{Limit: 0}))
	assert.Empty(t, New(NewSource(1)).Select(pool, Config{Limit: -2}))
}

func TestSelect_EmptyPool(t *testing.T) {
	assert.Empty(t, New(NewSource(1)).Select(nil, Config{Limit: 5}))
}

// Five questions on one concept, focused on that concept.
func TestSelect_FocusedSingleConcept(t *testing.T) {
	pool := makePool(map[string]int{"cell-membrane": 5})
	got := New(NewSource(3)).Select(pool, Config{
		TargetConceptIDs: []string{"cell-membrane"},
		Limit:            5,
	})

	require.Len(t, got, 5)
	for _, q := range got {
		assert.Equal(t, "cell-membrane", q.ConceptID)
	}
}

func TestSelect_FocusedOnlyTargetsWhenEnough(t *testing.T) {
	pool := makePool(map[string]int{"cell-membrane": 2, "memory": 6, "mitosis": 4})
	targets := map[string]bool{"memory": true, "mitosis": true}

	for seed := uint64(0); seed < 20; seed++ {
		got := New(NewSource(seed)).Select(pool, Config{
			TargetConceptIDs: []string{"memory", "mitosis"},
			Limit:            8,
		})
		require.Len(t, got, 8)
		for _, q := range got {
			require.True(t, targets[q.ConceptID], "seed %d picked %q", seed, q.ConceptID)
		}
	}
}

func TestSelect_FocusedTopsUpFromOthers(t *testing.T) {
	pool := makePool(map[string]int{"memory": 2, "mitosis": 5})
	got := New(NewSource(11)).Select(pool, Config{
		TargetConceptIDs: []string{"memory"},
		Limit:            5,
	})

	require.Len(t, got, 5)
	memory := 0
	for _, q := range got {
		if q.ConceptID == "memory" {
			memory++
		}
	}
	assert.Equal(t, 2, memory, "every target question is included before topping up")
}

func TestSelect_MixedSpreadsAcrossConcepts(t *testing.T) {
	pool := makePool(map[string]int{"cell-membrane": 5, "memory": 5, "mitosis": 5, "osmosis": 5})

	for seed := uint64(0); seed < 20; seed++ {
		got := New(NewSource(seed)).Select(pool, Config{Limit: 6, MixConcepts: 2})
		require.Len(t, got, 6)

		counts := make(map[string]int)
		for _, q := range got {
			counts[q.ConceptID]++
		}
		require.Len(t, counts, 2, "seed %d", seed)
		for concept, n := range counts {
			assert.Equal(t, 3, n, "seed %d concept %s", seed, concept)
		}
	}
}

func TestSelect_MixedPerConceptCap(t *testing.T) {
	// ceil(5/3) = 2 per concept, 6 sampled, truncated to 5.
	pool := makePool(map[string]int{"memory": 4, "mitosis": 4, "osmosis": 4})
	got := New(NewSource(5)).Select(pool, Config{Limit: 5, MixConcepts: 3})

	require.Len(t, got, 5)
	counts := make(map[string]int)
	for _, q := range got {
		counts[q.ConceptID]++
	}
	for concept, n := range counts {
		assert.LessOrEqual(t, n, 2, concept)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	pool := makePool(map[string]int{"cell-membrane": 4, "memory": 4, "mitosis": 4})
	cfgs := []Config{
		{Limit: 6},
		{Limit: 6, MixConcepts: 2},
		{Limit: 6, TargetConceptIDs: []string{"memory"}},
	}
	for _, cfg := range cfgs {
		a := New(NewSource(42)).Select(pool, cfg)
		b := New(NewSource(42)).Select(pool, cfg)
		assert.Equal(t, ids(a), ids(b), "cfg=%+v", cfg)
	}
}
