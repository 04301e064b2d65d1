package store

import (
	"context"
	"time"

	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/quiz"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ConceptCount is a concept id and the number of questions tagged with it.
type ConceptCount struct {
	ConceptID string
	Questions int
}

// QuestionRepo stores the question bank.
type QuestionRepo interface {
	// ByCourseAndConcepts returns questions ordered by id. An empty
	// courseID means every course; no conceptIDs means every concept.
	ByCourseAndConcepts(ctx context.Context, courseID string, conceptIDs []string) ([]quiz.Question, error)

	// Save validates and upserts questions by id in one transaction.
	Save(ctx context.Context, questions ...quiz.Question) error

	// Concepts lists the distinct concepts of a course with their
	// question counts, ordered by concept id.
	Concepts(ctx context.Context, courseID string) ([]ConceptCount, error)

	// Prompts returns the prompts already stored for a course concept.
	Prompts(ctx context.Context, courseID, conceptID string) ([]string, error)
}

// CourseSummary is a course with its bank size.
type CourseSummary struct {
	quiz.Course
	Questions int
	Topics    int
}

// CourseRepo stores courses and their externally owned topic mastery.
type CourseRepo interface {
	// SaveCourse upserts a course by id.
	SaveCourse(ctx context.Context, c quiz.Course) error

	// Course returns the course with the given id, or ErrNotFound.
	Course(ctx context.Context, id string) (*quiz.Course, error)

	// ListCourses returns every course ordered by name.
	ListCourses(ctx context.Context) ([]CourseSummary, error)

	// SetTopicMastery upserts a topic's mastery value (0-100).
	SetTopicMastery(ctx context.Context, courseID, topic string, mastery int) error

	// MasterySnapshot returns the course's topics as a snapshot for a
	// session. A course without topics yields an empty snapshot.
	MasterySnapshot(ctx context.Context, courseID string) (mastery.CourseSnapshot, error)
}

// SessionResult is the record of one completed session.
type SessionResult struct {
	ID         string
	Sequence   int64
	CourseID   string
	Mode       string
	Questions  int
	Correct    int
	ScorePct   int
	StartedAt  time.Time
	FinishedAt time.Time
	Attempts   []quiz.Attempt
}

// SessionRepo keeps a history of completed sessions.
type SessionRepo interface {
	// SaveResult appends a completed session. Sequence is assigned.
	SaveResult(ctx context.Context, r *SessionResult) error

	// Recent returns up to limit results, newest first. An empty
	// courseID means every course.
	Recent(ctx context.Context, courseID string, limit int) ([]SessionResult, error)

	// Prune deletes all but the keep most recent results.
	Prune(ctx context.Context, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls by purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls by model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to the LLM request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
