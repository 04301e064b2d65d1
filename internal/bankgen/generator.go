// Package bankgen grows a course's question bank with LLM-generated
// questions.
package bankgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/practiz/internal/llm"
	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/quiz"
)

// Expander grows the question bank for one topic.
type Expander interface {
	// Expand returns newly generated, validated questions. A successful
	// call may return zero questions.
	Expand(ctx context.Context, req Request) (*Result, error)
}

// Request describes one expansion.
type Request struct {
	Course    quiz.Course
	TopicName string

	// ConceptID tags the generated questions. Defaults to the slugified
	// topic name.
	ConceptID string

	// Count is the number of questions to ask for. Zero uses
	// Config.DefaultCount.
	Count int

	// ExistingPrompts are the prompts already in the bank, used to steer
	// the model away from duplicates.
	ExistingPrompts []string
}

// Result holds the accepted questions and the reasons others were dropped.
type Result struct {
	Questions []quiz.Question
	Rejected  []error
}

// Generator implements Expander using the LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   *slog.Logger
}

// New creates a new Generator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		provider: provider,
		config:   cfg,
		logger:   logger.With("component", "bankgen"),
	}
}

// batchOutput is the raw LLM response before validation.
type batchOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Type               string   `json:"type"`
	Prompt             string   `json:"prompt"`
	Choices            []string `json:"choices"`
	CorrectChoiceIndex int      `json:"correct_choice_index"`
	CorrectKeywords    []string `json:"correct_keywords"`
	Rationale          string   `json:"rationale"`
	MisconceptionHint  string   `json:"misconception_hint"`
	Difficulty         string   `json:"difficulty"`
}

// Expand asks the provider for a batch of questions on req.TopicName.
// Every question gets a fresh id and the course and concept of the
// request. Questions that fail validation or repeat an existing prompt are
// dropped and reported in Result.Rejected.
func (g *Generator) Expand(ctx context.Context, req Request) (*Result, error) {
	if err := quiz.ValidateCourse(req.Course); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.TopicName) == "" {
		return nil, errors.New("topic name is required")
	}

	conceptID := req.ConceptID
	if conceptID == "" {
		conceptID = mastery.Slugify(req.TopicName)
	}
	count := req.Count
	if count <= 0 {
		count = g.config.DefaultCount
	}
	if g.config.MaxCount > 0 && count > g.config.MaxCount {
		count = g.config.MaxCount
	}

	ctx = llm.DefaultPurpose(ctx, llm.PurposeBankExpand)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, count, g.config)},
		},
		Schema:      QuestionBatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := resp.Decode(&raw); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.ExistingPrompts)+len(raw.Questions))
	for _, p := range req.ExistingPrompts {
		seen[normalizePrompt(p)] = true
	}

	res := &Result{}
	for _, out := range raw.Questions {
		q := toQuestion(out, req.Course.ID, conceptID)

		key := normalizePrompt(q.Prompt)
		if seen[key] {
			res.Rejected = append(res.Rejected, fmt.Errorf("duplicate prompt %q", q.Prompt))
			continue
		}
		if err := quiz.ValidateQuestion(q); err != nil {
			res.Rejected = append(res.Rejected, err)
			continue
		}
		seen[key] = true
		res.Questions = append(res.Questions, q)
	}

	if len(res.Rejected) > 0 {
		g.logger.Warn("dropped generated questions",
			"topic", req.TopicName,
			"rejected", len(res.Rejected),
			"accepted", len(res.Questions),
			"error", errors.Join(res.Rejected...))
	}
	g.logger.Debug("bank expanded",
		"course_id", req.Course.ID,
		"concept_id", conceptID,
		"requested", count,
		"accepted", len(res.Questions))

	return res, nil
}

// toQuestion maps one raw LLM question onto the bank's data model. Choice
// ids are the letters a, b, c and so on.
func toQuestion(out questionOutput, courseID, conceptID string) quiz.Question {
	q := quiz.Question{
		ID:                uuid.NewString(),
		CourseID:          courseID,
		ConceptID:         conceptID,
		Type:              quiz.QuestionType(out.Type),
		Prompt:            strings.TrimSpace(out.Prompt),
		Rationale:         strings.TrimSpace(out.Rationale),
		MisconceptionHint: strings.TrimSpace(out.MisconceptionHint),
		Difficulty:        out.Difficulty,
	}

	switch q.Type {
	case quiz.TypeMultipleChoice:
		for i, text := range out.Choices {
			q.Choices = append(q.Choices, quiz.Choice{
				ID:   choiceID(i),
				Text: strings.TrimSpace(text),
			})
		}
		if out.CorrectChoiceIndex >= 0 && out.CorrectChoiceIndex < len(out.Choices) {
			q.CorrectAnswerID = choiceID(out.CorrectChoiceIndex)
		}
	case quiz.TypeShortAnswer:
		for _, kw := range out.CorrectKeywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				q.CorrectKeywords = append(q.CorrectKeywords, kw)
			}
		}
	}
	return q
}

func choiceID(i int) string {
	return string(rune('a' + i))
}

func normalizePrompt(p string) string {
	return strings.Join(strings.Fields(strings.ToLower(p)), " ")
}
