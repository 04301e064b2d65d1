package bankgen

import "github.com/abhisek/practiz/internal/llm"

// QuestionBatchSchema defines the JSON schema for LLM bank expansion responses.
var QuestionBatchSchema = &llm.Schema{
	Name:        "practice-questions",
	Description: "A batch of practice questions for one course topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"enum":        []any{"multiple_choice", "short_answer"},
							"description": "Pick one option, or answer in a sentence",
						},
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question shown to the student",
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for multiple_choice. Empty array for short_answer.",
						},
						"correct_choice_index": map[string]any{
							"type":        "integer",
							"minimum":     -1,
							"maximum":     3,
							"description": "Zero-based index of the correct option. -1 for short_answer.",
						},
						"correct_keywords": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Short words or stems any correct answer would contain. Empty array for multiple_choice.",
						},
						"rationale": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is correct",
						},
						"misconception_hint": map[string]any{
							"type":        "string",
							"description": "The mistake a wrong answer most likely reflects",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{"easy", "medium", "hard"},
						},
					},
					"required": []any{
						"type", "prompt", "choices", "correct_choice_index",
						"correct_keywords", "rationale", "misconception_hint", "difficulty",
					},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
