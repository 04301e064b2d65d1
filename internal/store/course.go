package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/quiz"
)

// courseRepo implements CourseRepo.
type courseRepo struct {
	drv *entsql.Driver
}

func (r *courseRepo) SaveCourse(ctx context.Context, c quiz.Course) error {
	if err := quiz.ValidateCourse(c); err != nil {
		return err
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(coursesTable).
		Columns("id", "name", "created_at").
		Values(c.ID, c.Name, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("name")
			}),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save course %s: %w", c.ID, err)
	}
	return nil
}

func (r *courseRepo) Course(ctx context.Context, id string) (*quiz.Course, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "name").
		From(entsql.Table(coursesTable)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query course: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query course: %w", err)
		}
		return nil, fmt.Errorf("course %q: %w", id, ErrNotFound)
	}
	var c quiz.Course
	if err := rows.Scan(&c.ID, &c.Name); err != nil {
		return nil, fmt.Errorf("scan course: %w", err)
	}
	return &c, nil
}

func (r *courseRepo) ListCourses(ctx context.Context) ([]CourseSummary, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "name").
		From(entsql.Table(coursesTable)).
		OrderBy("name", "id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	var out []CourseSummary
	for rows.Next() {
		var c CourseSummary
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	rows.Close()

	questions, err := r.countBy(ctx, questionsTable)
	if err != nil {
		return nil, err
	}
	topics, err := r.countBy(ctx, courseTopicsTable)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Questions = questions[out[i].ID]
		out[i].Topics = topics[out[i].ID]
	}
	return out, nil
}

// countBy counts the rows of table per course_id.
func (r *courseRepo) countBy(ctx context.Context, table string) (map[string]int, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("course_id", entsql.As(entsql.Count("*"), "n")).
		From(entsql.Table(table)).
		GroupBy("course_id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", table, err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (r *courseRepo) SetTopicMastery(ctx context.Context, courseID, topic string, value int) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fmt.Errorf("%w: topic name is required", ErrInvalidMastery)
	}
	if value < 0 || value > mastery.MaxMastery {
		return fmt.Errorf("%w: %d is outside 0-%d", ErrInvalidMastery, value, mastery.MaxMastery)
	}
	if _, err := r.Course(ctx, courseID); err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(courseTopicsTable).
		Columns("course_id", "slug", "name", "mastery", "updated_at").
		Values(courseID, mastery.Slugify(topic), topic, value, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("course_id", "slug"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("name")
				u.SetExcluded("mastery")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("set mastery of %s/%s: %w", courseID, topic, err)
	}
	return nil
}

func (r *courseRepo) MasterySnapshot(ctx context.Context, courseID string) (mastery.CourseSnapshot, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("name", "mastery").
		From(entsql.Table(courseTopicsTable)).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy("name").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return mastery.CourseSnapshot{}, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	snap := mastery.CourseSnapshot{MasteryTopics: []mastery.Topic{}}
	for rows.Next() {
		var t mastery.Topic
		if err := rows.Scan(&t.Name, &t.Mastery); err != nil {
			return mastery.CourseSnapshot{}, fmt.Errorf("scan topic: %w", err)
		}
		snap.MasteryTopics = append(snap.MasteryTopics, t)
	}
	return snap, rows.Err()
}
