package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var sessionColumns = []string{
	"id", "sequence", "course_id", "mode", "questions", "correct",
	"score_pct", "started_at", "finished_at", "attempts",
}

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *sessionRepo) SaveResult(ctx context.Context, res *SessionResult) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	attempts, err := json.Marshal(orEmpty(res.Attempts))
	if err != nil {
		return fmt.Errorf("encode attempts: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(res.ID, seqNum, res.CourseID, res.Mode, res.Questions, res.Correct,
			res.ScorePct, res.StartedAt.UnixMilli(), res.FinishedAt.UnixMilli(), string(attempts)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session result: %w", err)
	}

	res.Sequence = seqNum
	return nil
}

func (r *sessionRepo) Recent(ctx context.Context, courseID string, limit int) ([]SessionResult, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(sessionColumns...).
		From(entsql.Table(sessionsTable)).
		OrderBy(entsql.Desc("sequence"))
	if courseID != "" {
		sel.Where(entsql.EQ("course_id", courseID))
	}
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session results: %w", err)
	}
	defer rows.Close()

	var out []SessionResult
	for rows.Next() {
		var (
			res               SessionResult
			started, finished int64
			attempts          string
		)
		err := rows.Scan(&res.ID, &res.Sequence, &res.CourseID, &res.Mode, &res.Questions,
			&res.Correct, &res.ScorePct, &started, &finished, &attempts)
		if err != nil {
			return nil, fmt.Errorf("scan session result: %w", err)
		}
		res.StartedAt = time.UnixMilli(started)
		res.FinishedAt = time.UnixMilli(finished)
		if err := json.Unmarshal([]byte(attempts), &res.Attempts); err != nil {
			return nil, fmt.Errorf("decode attempts of %s: %w", res.ID, err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *sessionRepo) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}

	// Find the sequence of the oldest result to keep.
	query, args := entsql.Dialect(dialect.SQLite).
		Select("sequence").
		From(entsql.Table(sessionsTable)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Offset(max(keep-1, 0)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("find prune cutoff: %w", err)
	}
	var cutoff int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&cutoff); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune cutoff: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("find prune cutoff: %w", err)
	}
	rows.Close()

	if !found {
		return nil
	}

	del := entsql.Dialect(dialect.SQLite).Delete(sessionsTable)
	if keep == 0 {
		del.Where(entsql.LTE("sequence", cutoff))
	} else {
		del.Where(entsql.LT("sequence", cutoff))
	}
	query, args = del.Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune session results: %w", err)
	}
	return nil
}
