package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/practiz/internal/quiz"
)

var questionColumns = []string{
	"id", "course_id", "concept_id", "type", "prompt", "choices",
	"correct_answer_id", "correct_keywords", "rationale",
	"misconception_hint", "difficulty", "created_at",
}

// questionRepo implements QuestionRepo.
type questionRepo struct {
	drv *entsql.Driver
}

func (r *questionRepo) ByCourseAndConcepts(ctx context.Context, courseID string, conceptIDs []string) ([]quiz.Question, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(questionColumns...).
		From(entsql.Table(questionsTable)).
		OrderBy("id")

	var preds []*entsql.Predicate
	if courseID != "" {
		preds = append(preds, entsql.EQ("course_id", courseID))
	}
	if len(conceptIDs) > 0 {
		preds = append(preds, entsql.In("concept_id", anySlice(conceptIDs)...))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []quiz.Question
	for rows.Next() {
		q, err := scanQuestion(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

func scanQuestion(rows *entsql.Rows) (quiz.Question, error) {
	var (
		q                 quiz.Question
		qtype             string
		choices, keywords string
		createdAt         int64
	)
	err := rows.Scan(&q.ID, &q.CourseID, &q.ConceptID, &qtype, &q.Prompt, &choices,
		&q.CorrectAnswerID, &keywords, &q.Rationale, &q.MisconceptionHint,
		&q.Difficulty, &createdAt)
	if err != nil {
		return quiz.Question{}, fmt.Errorf("scan question: %w", err)
	}
	q.Type = quiz.QuestionType(qtype)
	if err := json.Unmarshal([]byte(choices), &q.Choices); err != nil {
		return quiz.Question{}, fmt.Errorf("decode choices of %s: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(keywords), &q.CorrectKeywords); err != nil {
		return quiz.Question{}, fmt.Errorf("decode keywords of %s: %w", q.ID, err)
	}
	if len(q.Choices) == 0 {
		q.Choices = nil
	}
	if len(q.CorrectKeywords) == 0 {
		q.CorrectKeywords = nil
	}
	return q, nil
}

func (r *questionRepo) Save(ctx context.Context, questions ...quiz.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ins := entsql.Dialect(dialect.SQLite).
		Insert(questionsTable).
		Columns(questionColumns...)

	now := time.Now().UnixMilli()
	for _, q := range questions {
		if err := quiz.ValidateQuestion(q); err != nil {
			return err
		}
		choices, err := json.Marshal(orEmpty(q.Choices))
		if err != nil {
			return fmt.Errorf("encode choices of %s: %w", q.ID, err)
		}
		keywords, err := json.Marshal(orEmpty(q.CorrectKeywords))
		if err != nil {
			return fmt.Errorf("encode keywords of %s: %w", q.ID, err)
		}
		ins.Values(q.ID, q.CourseID, q.ConceptID, string(q.Type), q.Prompt,
			string(choices), q.CorrectAnswerID, string(keywords), q.Rationale,
			q.MisconceptionHint, q.Difficulty, now)
	}
	ins.OnConflict(
		entsql.ConflictColumns("id"),
		entsql.ResolveWith(func(u *entsql.UpdateSet) {
			for _, c := range questionColumns[1:] {
				if c != "created_at" {
					u.SetExcluded(c)
				}
			}
		}),
	)

	query, args := ins.Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save questions: %w", err)
	}
	return nil
}

func (r *questionRepo) Concepts(ctx context.Context, courseID string) ([]ConceptCount, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("concept_id", entsql.As(entsql.Count("*"), "questions")).
		From(entsql.Table(questionsTable)).
		Where(entsql.EQ("course_id", courseID)).
		GroupBy("concept_id").
		OrderBy("concept_id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query concepts: %w", err)
	}
	defer rows.Close()

	var out []ConceptCount
	for rows.Next() {
		var c ConceptCount
		if err := rows.Scan(&c.ConceptID, &c.Questions); err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *questionRepo) Prompts(ctx context.Context, courseID, conceptID string) ([]string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("prompt").
		From(entsql.Table(questionsTable)).
		Where(entsql.And(
			entsql.EQ("course_id", courseID),
			entsql.EQ("concept_id", conceptID),
		)).
		OrderBy("id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func anySlice[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
