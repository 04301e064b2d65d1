package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	coursesTable      = "courses"
	courseTopicsTable = "course_topics"
	questionsTable    = "questions"
	sessionsTable     = "session_results"
	llmEventsTable    = "llm_request_events"
)

var (
	// CoursesColumns holds the columns for the "courses" table.
	CoursesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeInt64},
	}
	// CoursesTable holds the schema information for the "courses" table.
	CoursesTable = &schema.Table{
		Name:       coursesTable,
		Columns:    CoursesColumns,
		PrimaryKey: []*schema.Column{CoursesColumns[0]},
	}

	// CourseTopicsColumns holds the columns for the "course_topics" table.
	CourseTopicsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "course_id", Type: field.TypeString},
		{Name: "slug", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "mastery", Type: field.TypeInt, Default: 0},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// CourseTopicsTable holds the schema information for the "course_topics" table.
	CourseTopicsTable = &schema.Table{
		Name:       courseTopicsTable,
		Columns:    CourseTopicsColumns,
		PrimaryKey: []*schema.Column{CourseTopicsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "course_topics_courses_topics",
				Columns:    []*schema.Column{CourseTopicsColumns[1]},
				RefColumns: []*schema.Column{CoursesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "coursetopic_course_id_slug",
				Unique:  true,
				Columns: []*schema.Column{CourseTopicsColumns[1], CourseTopicsColumns[2]},
			},
		},
	}

	// QuestionsColumns holds the columns for the "questions" table.
	// Choices and keywords are stored as JSON text.
	QuestionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "course_id", Type: field.TypeString},
		{Name: "concept_id", Type: field.TypeString},
		{Name: "type", Type: field.TypeString},
		{Name: "prompt", Type: field.TypeString, Size: 2147483647},
		{Name: "choices", Type: field.TypeString, Default: "[]"},
		{Name: "correct_answer_id", Type: field.TypeString, Default: ""},
		{Name: "correct_keywords", Type: field.TypeString, Default: "[]"},
		{Name: "rationale", Type: field.TypeString, Default: ""},
		{Name: "misconception_hint", Type: field.TypeString, Default: ""},
		{Name: "difficulty", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	// QuestionsTable holds the schema information for the "questions" table.
	QuestionsTable = &schema.Table{
		Name:       questionsTable,
		Columns:    QuestionsColumns,
		PrimaryKey: []*schema.Column{QuestionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "question_course_id_concept_id",
				Unique:  false,
				Columns: []*schema.Column{QuestionsColumns[1], QuestionsColumns[2]},
			},
		},
	}

	// SessionResultsColumns holds the columns for the "session_results" table.
	SessionResultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "course_id", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "questions", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeInt},
		{Name: "score_pct", Type: field.TypeInt},
		{Name: "started_at", Type: field.TypeInt64},
		{Name: "finished_at", Type: field.TypeInt64},
		{Name: "attempts", Type: field.TypeString, Default: "[]"},
	}
	// SessionResultsTable holds the schema information for the "session_results" table.
	SessionResultsTable = &schema.Table{
		Name:       sessionsTable,
		Columns:    SessionResultsColumns,
		PrimaryKey: []*schema.Column{SessionResultsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "sessionresult_course_id",
				Unique:  false,
				Columns: []*schema.Column{SessionResultsColumns[2]},
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       llmEventsTable,
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[5]},
			},
			{
				Name:    "llmrequestevent_model",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CoursesTable,
		CourseTopicsTable,
		QuestionsTable,
		SessionResultsTable,
		LlmRequestEventsTable,
	}
)

func init() {
	CourseTopicsTable.ForeignKeys[0].RefTable = CoursesTable
}
