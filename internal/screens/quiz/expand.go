package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/bankgen"
	"github.com/abhisek/practiz/internal/llm"
	qz "github.com/abhisek/practiz/internal/quiz"
)

const expandTimeout = 2 * time.Minute

// expand starts an asynchronous bank expansion for the session's topic.
func (s *QuizScreen) expand() tea.Cmd {
	if s.deps.Expander == nil {
		s.notice = "Question generation is not configured."
		return nil
	}
	req := s.expansionRequest()
	if req.Course.ID == "" {
		s.notice = "Pick a single course to generate questions."
		return nil
	}
	if err := s.machine.BeginExpansion(); err != nil {
		s.report(err)
		return nil
	}

	expander, repo, courses := s.deps.Expander, s.deps.Questions, s.deps.Courses
	s.logger.Info("expanding question bank",
		"course_id", req.Course.ID,
		"concept_id", req.ConceptID)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), expandTimeout)
		defer cancel()
		ctx = llm.WithPurpose(ctx, llm.PurposeSessionExpand)

		if req.Course.Name == "" && courses != nil {
			if c, err := courses.Course(ctx, req.Course.ID); err == nil {
				req.Course = *c
			}
		}

		res, err := expander.Expand(ctx, req)
		if err != nil {
			return expansionDoneMsg{Err: err}
		}
		if repo != nil && len(res.Questions) > 0 {
			if err := repo.Save(ctx, res.Questions...); err != nil {
				return expansionDoneMsg{Err: fmt.Errorf("save generated questions: %w", err)}
			}
		}
		return expansionDoneMsg{Questions: res.Questions, Rejected: len(res.Rejected)}
	}
}

// expansionRequest picks the concept to generate for: the first target
// concept, else the first missed or attempted one, else the pool's first.
func (s *QuizScreen) expansionRequest() bankgen.Request {
	v := s.machine.Snapshot()
	pool := s.machine.Pool()

	conceptID := ""
	if targets := s.machine.Config().TargetConceptIDs; len(targets) > 0 {
		conceptID = targets[0]
	}
	if conceptID == "" {
		for _, a := range v.Attempts {
			if !a.Correct {
				conceptID = a.ConceptID
				break
			}
		}
	}
	if conceptID == "" && len(v.Attempts) > 0 {
		conceptID = v.Attempts[0].ConceptID
	}
	if conceptID == "" && len(pool) > 0 {
		conceptID = pool[0].ConceptID
	}

	topic, _ := s.machine.Course().MasteryFor(conceptID)
	if topic == "" {
		topic = conceptID
	}
	if topic == "" {
		topic = s.course.Name
	}

	var prompts []string
	for _, q := range pool {
		if conceptID == "" || q.ConceptID == conceptID {
			prompts = append(prompts, q.Prompt)
		}
	}

	// A session across all courses generates for the course the chosen
	// concept came from.
	course := s.course
	if course.ID == "" {
		for _, q := range pool {
			if q.ConceptID == conceptID {
				course = qz.Course{ID: q.CourseID}
				break
			}
		}
	}

	return bankgen.Request{
		Course:          course,
		TopicName:       topic,
		ConceptID:       conceptID,
		ExistingPrompts: prompts,
	}
}

func (s *QuizScreen) handleExpansionDone(msg expansionDoneMsg) (*QuizScreen, tea.Cmd) {
	added, err := s.machine.FinishExpansion(msg.Questions, msg.Err)

	var ext *qz.ExternalServiceError
	switch {
	case errors.As(err, &ext):
		s.notice = "Could not generate questions: " + llm.Hint(ext.Err)
	case errors.Is(err, qz.ErrSessionClosed):
		return s, nil
	case errors.Is(err, qz.ErrNoQuestions):
		s.notice = "Generated questions did not match this selection."
	case err != nil:
		s.report(err)
	case added == 0:
		s.notice = "No new questions were generated."
	default:
		s.notice = fmt.Sprintf("Added %d new questions.", added)
	}
	if msg.Rejected > 0 && err == nil {
		s.notice += fmt.Sprintf(" %d rejected.", msg.Rejected)
	}
	return s, s.syncWidgets()
}
