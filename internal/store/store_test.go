package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/slide"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Dialect() != SQLite {
		t.Fatalf("dialect = %q, want sqlite", s.Dialect())
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		dsn  string
		want Dialect
	}{
		{"postgres://user:pw@localhost/clai", Postgres},
		{"postgresql://localhost/clai", Postgres},
		{"/tmp/clai.db", SQLite},
		{"file::memory:", SQLite},
	}
	for _, tt := range tests {
		if got := DialectFor(tt.dsn); got != tt.want {
			t.Errorf("DialectFor(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: Postgres}
	got := pg.rebind("UPDATE t SET a = ?, b = ? WHERE id = ?")
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", got)

	lite := &Store{dialect: SQLite}
	assert.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}

func TestCourseCRUD(t *testing.T) {
	s := openTestStore(t)
	repo := s.CourseRepo()
	ctx := context.Background()

	c, err := repo.CreateCourse(ctx, CourseFields{Title: "Car Mechanics", Description: "Engines", Category: "Auto"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.Approved)
	assert.Empty(t, c.Approver)

	got, err := repo.GetCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Car Mechanics", got.Title)
	assert.Equal(t, "Auto", got.Category)
	assert.WithinDuration(t, c.CreatedAt, got.CreatedAt, 0)

	updated, err := repo.UpdateCourse(ctx, c.ID, CourseFields{
		Title: "Car Mechanics 101", Description: "Engines", Category: "Auto",
		Approved: true, Approver: "sam",
	})
	require.NoError(t, err)
	assert.True(t, updated.Approved)
	assert.Equal(t, "sam", updated.Approver)
	assert.Equal(t, "Car Mechanics 101", updated.Title)

	list, err := repo.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCourseNotFound(t *testing.T) {
	s := openTestStore(t)
	repo := s.CourseRepo()
	ctx := context.Background()

	_, err := repo.GetCourse(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "get: %v", err)

	_, err = repo.UpdateCourse(ctx, "missing", CourseFields{Title: "x"})
	assert.True(t, errors.Is(err, ErrNotFound), "update: %v", err)
}

func createCourse(t *testing.T, s *Store) course.Course {
	t.Helper()
	c, err := s.CourseRepo().CreateCourse(context.Background(), CourseFields{Title: "Car Mechanics", Category: "Auto"})
	require.NoError(t, err)
	return c
}

func TestLessonCRUD(t *testing.T) {
	s := openTestStore(t)
	c := createCourse(t, s)
	repo := s.LessonRepo()
	ctx := context.Background()

	second, err := repo.CreateLesson(ctx, LessonFields{Title: "Brakes", Order: 1}, c.ID)
	require.NoError(t, err)
	first, err := repo.CreateLesson(ctx, LessonFields{Title: "Engines", Order: 0}, c.ID)
	require.NoError(t, err)

	list, err := repo.ListLessons(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID, "ordered by lesson_order")
	assert.Equal(t, second.ID, list[1].ID)

	upd, err := repo.UpdateLesson(ctx, first.ID, LessonFields{Title: "Engine Basics", Order: 0, Approved: true, Approver: "kim"})
	require.NoError(t, err)
	assert.Equal(t, "Engine Basics", upd.Title)
	assert.Equal(t, "kim", upd.Approver)

	_, err = repo.CreateLesson(ctx, LessonFields{Title: "Orphan"}, "no-such-course")
	assert.True(t, errors.Is(err, ErrNotFound), "create under missing course: %v", err)

	_, err = repo.GetLesson(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBulkUpsertLessons_SwapIsAtomic(t *testing.T) {
	s := openTestStore(t)
	c := createCourse(t, s)
	repo := s.LessonRepo()
	ctx := context.Background()

	created, err := repo.BulkUpsertLessons(ctx, c.ID, []course.Lesson{
		{Title: "A", Order: 0},
		{Title: "B", Order: 1},
		{Title: "C", Order: 2},
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	for _, l := range created {
		assert.NotEmpty(t, l.ID)
		assert.Equal(t, c.ID, l.CourseID)
	}

	_, changed, ok := course.MoveLesson(created, 0, course.Down)
	require.True(t, ok)
	_, err = repo.BulkUpsertLessons(ctx, c.ID, changed)
	require.NoError(t, err)

	list, err := repo.ListLessons(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, lessonTitles(list))

	// A failing row rolls back the whole batch.
	other := createCourse(t, s)
	foreign, err := repo.CreateLesson(ctx, LessonFields{Title: "Foreign"}, other.ID)
	require.NoError(t, err)

	bad := []course.Lesson{list[0], foreign}
	bad[0].Order = 9
	_, err = repo.BulkUpsertLessons(ctx, c.ID, bad)
	require.Error(t, err)

	after, err := repo.ListLessons(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, lessonTitles(after))
	assert.Equal(t, 0, after[0].Order)
}

func lessonTitles(ls []course.Lesson) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Title
	}
	return out
}

func createLesson(t *testing.T, s *Store) course.Lesson {
	t.Helper()
	c := createCourse(t, s)
	l, err := s.LessonRepo().CreateLesson(context.Background(), LessonFields{Title: "Engines"}, c.ID)
	require.NoError(t, err)
	return l
}

func everyVariant() []slide.Slide {
	return []slide.Slide{
		{Question: "Intro", Order: 1, Content: slide.Markdown{Text: "# Engines"}},
		{Question: "Pick one", Order: 2, Content: slide.SingleChoice{
			Options: []string{"Oil", "Water"}, CorrectAnswer: "Oil",
			CorrectAnswerDescription: "Yes", WrongAnswerDescription: "No",
		}},
		{Question: "Pick many", Order: 3, Content: slide.MultipleChoice{
			Options: []string{"Oil", "Coolant", "Milk"}, CorrectAnswer: []string{"Oil", "Coolant"},
			CorrectAnswerDescription: "Yes", WrongAnswerDescription: "No",
		}},
		{Question: "Reflect", Order: 4, Content: slide.Reflection{ResponseContext: "be kind"}},
		{Question: "Reveal", Order: 5, Content: slide.Reveal{CorrectAnswer: "Radiator"}},
	}
}

func TestSlides_RoundTripEveryVariant(t *testing.T) {
	s := openTestStore(t)
	l := createLesson(t, s)
	repo := s.SlideRepo()
	ctx := context.Background()

	created, err := repo.CreateSlides(ctx, l.ID, everyVariant())
	require.NoError(t, err)
	require.Len(t, created, 5)

	list, err := repo.ListSlides(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, want := range everyVariant() {
		assert.Equal(t, want.Content, list[i].Content, "slide %d", i)
		assert.Equal(t, want.Order, list[i].Order)
		assert.Equal(t, l.ID, list[i].LessonID)
	}
}

func TestCreateSlides_MissingLesson(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SlideRepo().CreateSlides(context.Background(), "missing", everyVariant())
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestUpdateSlide(t *testing.T) {
	s := openTestStore(t)
	l := createLesson(t, s)
	repo := s.SlideRepo()
	ctx := context.Background()

	sl, err := repo.CreateSlide(ctx, slide.Slide{Question: "Q", Order: 1, Content: slide.Reveal{CorrectAnswer: "A"}}, l.ID)
	require.NoError(t, err)

	sl.Question = "What is inside?"
	sl.Content = slide.Reveal{CorrectAnswer: "Pistons"}
	sl.Order = 99
	require.NoError(t, repo.UpdateSlide(ctx, sl))

	got, err := repo.GetSlide(ctx, sl.ID)
	require.NoError(t, err)
	assert.Equal(t, "What is inside?", got.Question)
	assert.Equal(t, slide.Reveal{CorrectAnswer: "Pistons"}, got.Content)
	assert.Equal(t, 1, got.Order, "order is not touched by UpdateSlide")

	sl.Content = slide.Markdown{Text: "now markdown"}
	err = repo.UpdateSlide(ctx, sl)
	assert.True(t, errors.Is(err, ErrKindChanged), "got %v", err)

	err = repo.UpdateSlide(ctx, slide.Slide{ID: "missing", Question: "Q", Content: slide.Markdown{}})
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestReorderSlides(t *testing.T) {
	s := openTestStore(t)
	l := createLesson(t, s)
	repo := s.SlideRepo()
	ctx := context.Background()

	created, err := repo.CreateSlides(ctx, l.ID, everyVariant())
	require.NoError(t, err)

	moved, ok := course.MoveSlide(created, 4, course.Up)
	require.True(t, ok)
	require.NoError(t, repo.ReorderSlides(ctx, l.ID, moved))

	list, err := repo.ListSlides(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reveal", list[3].Question)
	assert.Equal(t, "Reflect", list[4].Question)
	for i, sl := range list {
		assert.Equal(t, i+1, sl.Order)
	}

	// An unknown slide aborts the whole reorder.
	bad := course.RenumberSlides(append([]slide.Slide{{ID: "ghost"}}, list...), 1)
	err = repo.ReorderSlides(ctx, l.ID, bad)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	after, err := repo.ListSlides(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, list, after)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "gpt-4o-mini", Purpose: "lesson-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, ResponseBody: "[]"},
		{Provider: "mock", Model: "gpt-4o-mini", Purpose: "slide-gen", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "mock", Model: "claude-haiku-4-5", Purpose: "slide-gen", InputTokens: 10, LatencyMs: 600, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "boom", all[0].ErrorMessage, "newest first")

	slides, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "slide-gen", Limit: 1})
	require.NoError(t, err)
	require.Len(t, slides, 1)
	assert.False(t, slides[0].Success)

	one, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "[]", one.ResponseBody)

	_, err = repo.GetLLMEvent(ctx, 9999)
	assert.True(t, errors.Is(err, ErrNotFound))

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsageStats{Purpose: "slide-gen", Calls: 2, InputTokens: 310, OutputTokens: 150, AvgLatencyMs: 500}, byPurpose[1])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gpt-4o-mini", byModel[1].Model)
	assert.Equal(t, 400, byModel[1].InputTokens)
}
