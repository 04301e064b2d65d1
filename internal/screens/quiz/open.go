package quiz

import (
	"context"
	"fmt"

	"github.com/abhisek/practiz/internal/mastery"
	qz "github.com/abhisek/practiz/internal/quiz"
	"github.com/abhisek/practiz/internal/selection"
	sess "github.com/abhisek/practiz/internal/session"
)

// Open loads a course's question pool and mastery snapshot and returns a
// screen with an idle machine. A nil src seeds selection randomly.
func Open(ctx context.Context, course qz.Course, cfg selection.Config, src selection.Source, deps Deps) (*QuizScreen, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("selection config: %w", err)
	}

	var pool []qz.Question
	if deps.Questions != nil {
		var err error
		pool, err = deps.Questions.ByCourseAndConcepts(ctx, course.ID, nil)
		if err != nil {
			return nil, fmt.Errorf("load questions for %s: %w", course.ID, err)
		}
	}

	var snap mastery.CourseSnapshot
	if deps.Courses != nil {
		var err error
		snap, err = deps.Courses.MasterySnapshot(ctx, course.ID)
		if err != nil {
			return nil, fmt.Errorf("load mastery for %s: %w", course.ID, err)
		}
	}

	machine := sess.New(sess.Options{
		Pool:     pool,
		Config:   cfg,
		Selector: selection.New(src),
		Course:   snap,
		Logger:   deps.Logger,
	})
	return New(course, machine, deps), nil
}
