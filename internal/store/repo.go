package store

import (
	"context"
	"errors"
	"time"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/slide"
)

// ErrNotFound is returned (wrapped) when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrKindChanged is returned when an update would change a slide's type.
var ErrKindChanged = errors.New("slide type cannot change")

// CourseFields are the writable fields of a course.
type CourseFields struct {
	Title       string
	Description string
	Category    string
	Approved    bool
	Approver    string
}

// LessonFields are the writable fields of a lesson.
type LessonFields struct {
	Title       string
	Description string
	Order       int
	Approved    bool
	Approver    string
}

// CourseRepo manages courses. Courses are never deleted.
type CourseRepo interface {
	CreateCourse(ctx context.Context, f CourseFields) (course.Course, error)
	ListCourses(ctx context.Context) ([]course.Course, error)
	GetCourse(ctx context.Context, id string) (course.Course, error)
	UpdateCourse(ctx context.Context, id string, f CourseFields) (course.Course, error)
}

// LessonRepo manages lessons within a course.
type LessonRepo interface {
	CreateLesson(ctx context.Context, f LessonFields, courseID string) (course.Lesson, error)

	// ListLessons returns the course's lessons ordered by Order.
	ListLessons(ctx context.Context, courseID string) ([]course.Lesson, error)

	GetLesson(ctx context.Context, id string) (course.Lesson, error)
	UpdateLesson(ctx context.Context, id string, f LessonFields) (course.Lesson, error)

	// BulkUpsertLessons writes every lesson in one transaction. Lessons
	// without an ID are created. Either all rows are written or none.
	BulkUpsertLessons(ctx context.Context, courseID string, lessons []course.Lesson) ([]course.Lesson, error)
}

// SlideRepo manages slides within a lesson.
type SlideRepo interface {
	CreateSlide(ctx context.Context, s slide.Slide, lessonID string) (slide.Slide, error)

	// CreateSlides persists a batch in one transaction.
	CreateSlides(ctx context.Context, lessonID string, slides []slide.Slide) ([]slide.Slide, error)

	// ListSlides returns the lesson's slides ordered by Order.
	ListSlides(ctx context.Context, lessonID string) ([]slide.Slide, error)

	GetSlide(ctx context.Context, id string) (slide.Slide, error)

	// UpdateSlide writes only the question and content.
	UpdateSlide(ctx context.Context, s slide.Slide) error

	// ReorderSlides writes the Order of every given slide in one
	// transaction.
	ReorderSlides(ctx context.Context, lessonID string, slides []slide.Slide) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match when set
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
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

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
