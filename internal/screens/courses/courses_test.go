package courses

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/mastery"
	qz "github.com/abhisek/practiz/internal/quiz"
	"github.com/abhisek/practiz/internal/router"
	quizscreen "github.com/abhisek/practiz/internal/screens/quiz"
	"github.com/abhisek/practiz/internal/selection"
	"github.com/abhisek/practiz/internal/store"
)

type mockCourseRepo struct {
	courses []store.CourseSummary
	err     error
}

func (m *mockCourseRepo) SaveCourse(_ context.Context, _ qz.Course) error { return nil }
func (m *mockCourseRepo) Course(_ context.Context, _ string) (*qz.Course, error) {
	return nil, store.ErrNotFound
}
func (m *mockCourseRepo) ListCourses(_ context.Context) ([]store.CourseSummary, error) {
	return m.courses, m.err
}
func (m *mockCourseRepo) SetTopicMastery(_ context.Context, _, _ string, _ int) error { return nil }
func (m *mockCourseRepo) MasterySnapshot(_ context.Context, _ string) (mastery.CourseSnapshot, error) {
	return mastery.CourseSnapshot{MasteryTopics: []mastery.Topic{}}, nil
}

type mockQuestionRepo struct {
	pool      []qz.Question
	courseIDs []string
}

func (m *mockQuestionRepo) ByCourseAndConcepts(_ context.Context, courseID string, _ []string) ([]qz.Question, error) {
	m.courseIDs = append(m.courseIDs, courseID)
	return m.pool, nil
}
func (m *mockQuestionRepo) Save(_ context.Context, _ ...qz.Question) error { return nil }
func (m *mockQuestionRepo) Concepts(_ context.Context, _ string) ([]store.ConceptCount, error) {
	return nil, nil
}
func (m *mockQuestionRepo) Prompts(_ context.Context, _, _ string) ([]string, error) {
	return nil, nil
}

func newScreen(courses *mockCourseRepo) *CoursesScreen {
	s, _ := newScreenWithQuestions(courses)
	return s
}

func newScreenWithQuestions(courses *mockCourseRepo) (*CoursesScreen, *mockQuestionRepo) {
	pool := []qz.Question{{
		ID: "q1", CourseID: "bio", ConceptID: "cells", Type: qz.TypeMultipleChoice,
		Prompt:          "Pick one",
		Choices:         []qz.Choice{{ID: "a", Text: "A"}, {ID: "b", Text: "B"}},
		CorrectAnswerID: "a",
	}}
	questions := &mockQuestionRepo{pool: pool}
	s := New(selection.Config{Limit: 5}, quizscreen.Deps{
		Courses:   courses,
		Questions: questions,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Update(s.Init()())
	return s, questions
}

// openSelected presses Enter and returns the pushed quiz screen.
func openSelected(t *testing.T, s *CoursesScreen) *quizscreen.QuizScreen {
	t.Helper()
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	opened, ok := cmd().(sessionOpenedMsg)
	require.True(t, ok)
	require.NoError(t, opened.Err)

	_, cmd = s.Update(opened)
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	scr, ok := push.Screen.(*quizscreen.QuizScreen)
	require.True(t, ok)
	return scr
}

func TestListsCourses(t *testing.T) {
	s := newScreen(&mockCourseRepo{courses: []store.CourseSummary{
		{Course: qz.Course{ID: "bio", Name: "Biology"}, Questions: 12},
		{Course: qz.Course{ID: "chem", Name: "Chemistry"}, Questions: 0},
	}})

	view := s.View(100, 30)
	assert.Contains(t, view, "Biology")
	assert.Contains(t, view, "(12 questions)")
	assert.Contains(t, view, "(0 questions)")
	assert.Contains(t, view, "Mode: random")

	require.Len(t, s.menu.Items, 3)
	assert.Equal(t, "All courses", s.menu.Items[0].Label)
	assert.Equal(t, "(12 questions)", s.menu.Items[0].Detail)
	assert.Equal(t, "Chemistry", s.menu.Items[2].Label)
	assert.True(t, s.menu.Items[2].Disabled, "an empty course needs an expander to be playable")
}

func TestSingleCourseHasNoAllRow(t *testing.T) {
	s := newScreen(&mockCourseRepo{courses: []store.CourseSummary{
		{Course: qz.Course{ID: "bio", Name: "Biology"}, Questions: 1},
	}})

	require.Len(t, s.menu.Items, 1)
	assert.Equal(t, "Biology", s.menu.Items[0].Label)
	assert.Equal(t, "(1 question)", s.menu.Items[0].Detail)
}

func TestAllCoursesLoadsWholeBank(t *testing.T) {
	s, questions := newScreenWithQuestions(&mockCourseRepo{courses: []store.CourseSummary{
		{Course: qz.Course{ID: "bio", Name: "Biology"}, Questions: 1},
		{Course: qz.Course{ID: "chem", Name: "Chemistry"}, Questions: 2},
	}})

	scr := openSelected(t, s)
	assert.Equal(t, "All courses", scr.Title())
	assert.Equal(t, []string{""}, questions.courseIDs, "no course filter")
}

func TestAllCoursesDisabledWhenBankEmpty(t *testing.T) {
	s := newScreen(&mockCourseRepo{courses: []store.CourseSummary{
		{Course: qz.Course{ID: "bio", Name: "Biology"}, Questions: 0},
		{Course: qz.Course{ID: "chem", Name: "Chemistry"}, Questions: 0},
	}})

	assert.True(t, s.menu.Items[0].Disabled)
}

func TestToggleMixed(t *testing.T) {
	s := newScreen(&mockCourseRepo{courses: []store.CourseSummary{
		{Course: qz.Course{ID: "bio", Name: "Biology"}, Questions: 1},
	}})

	s.Update(tea.KeyPressMsg{Code: 'm', Text: "m"})
	assert.Equal(t, selection.ModeMixed, s.config().Mode())
	assert.Equal(t, defaultMix, s.config().MixConcepts)
	assert.Contains(t, s.View(100, 30), "Mode: mixed")

	s.Update(tea.KeyPressMsg{Code: 'm', Text: "m"})
	assert.Equal(t, selection.ModeRandom, s.config().Mode())
}

func TestEnterPushesQuiz(t *testing.T) {
	s := newScreen(&mockCourseRepo{courses: []store.CourseSummary{
		{Course: qz.Course{ID: "bio", Name: "Biology"}, Questions: 1},
	}})

	assert.Equal(t, "Biology", openSelected(t, s).Title())
}

func TestNoCourses(t *testing.T) {
	s := newScreen(&mockCourseRepo{})
	assert.Contains(t, s.View(100, 30), "No courses yet")
}

func TestLoadError(t *testing.T) {
	s := newScreen(&mockCourseRepo{err: errors.New("disk on fire")})
	assert.Contains(t, s.View(100, 30), "Error: disk on fire")
}

func TestResumeReloads(t *testing.T) {
	repo := &mockCourseRepo{}
	s := newScreen(repo)
	repo.courses = []store.CourseSummary{{Course: qz.Course{ID: "bio", Name: "Biology"}, Questions: 3}}

	s.Update(s.Resume()())
	assert.Contains(t, s.View(100, 30), "(3 questions)")
}
