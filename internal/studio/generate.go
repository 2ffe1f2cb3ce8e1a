package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/generate"
	"github.com/aeriel/clai/internal/llm"
	"github.com/aeriel/clai/internal/slide"
)

var errNoGenerator = errors.New("no LLM provider configured")

func checkCount(field string, n, max int) error {
	if n < 1 || n > max {
		return invalid(field, "must be between 1 and %d, got %d", max, n)
	}
	return nil
}

// OutlineCourse generates lesson stubs for a course that is not saved.
// Generation is fail-soft: a failed or unusable response yields an empty
// list.
func (s *Service) OutlineCourse(ctx context.Context, title, description string, count int) ([]course.LessonStub, error) {
	if err := checkCount("lessonCount", count, MaxLessonCount); err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, fail("generate lessons", errNoGenerator)
	}
	stubs, out := s.gen.GenerateLessons(ctx, generate.LessonRequest{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Count:       count,
	})
	if out.Reason != generate.ReasonOK {
		s.log.Warn("course outline empty", "title", title, "reason", out.Reason.String())
	}
	if stubs == nil {
		stubs = []course.LessonStub{}
	}
	return stubs, nil
}

// GenerateLessons generates up to count lessons for the course and saves
// them in one batch after any existing lessons.
func (s *Service) GenerateLessons(ctx context.Context, courseID string, count int) ([]course.Lesson, error) {
	if err := checkCount("count", count, MaxLessonCount); err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, fail("generate lessons", errNoGenerator)
	}
	release, ok := s.busy.acquire("lessons:" + courseID)
	if !ok {
		return nil, ErrBusy
	}
	defer release()

	c, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repos.Lessons.ListLessons(ctx, courseID)
	if err != nil {
		return nil, fail("load lessons", err)
	}

	stubs, out := s.gen.GenerateLessons(llm.WithTarget(ctx, "course:"+courseID), generate.LessonRequest{
		Title:       c.Title,
		Description: c.Description,
		Count:       count,
	})
	if len(stubs) == 0 {
		return nil, fail("generate lessons", fmt.Errorf("%w: %s", ErrNoLessons, out.Reason))
	}

	lessons := make([]course.Lesson, len(stubs))
	for i, st := range stubs {
		lessons[i] = st.Lesson(courseID)
	}
	lessons = course.RenumberLessons(lessons, nextLessonOrder(existing))

	saved, err := s.repos.Lessons.BulkUpsertLessons(ctx, courseID, lessons)
	if err != nil {
		return nil, fail("save lessons", notFound(err, ErrCourseNotFound))
	}
	s.log.Info("lessons saved", "course_id", courseID, "count", len(saved))
	return saved, nil
}

// GenerateSlides generates up to count slides for the lesson, numbers the
// accepted ones after the existing slides and saves them in one batch.
func (s *Service) GenerateSlides(ctx context.Context, lessonID string, count int, extra string) ([]slide.Slide, error) {
	if err := checkCount("count", count, MaxSlideCount); err != nil {
		return nil, err
	}
	if s.gen == nil {
		return nil, fail("generate slides", errNoGenerator)
	}
	release, ok := s.busy.acquire("slides:" + lessonID)
	if !ok {
		return nil, ErrBusy
	}
	defer release()

	view, err := s.LoadLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	slides, out := s.gen.GenerateSlides(llm.WithTarget(ctx, "lesson:"+lessonID), generate.SlideRequest{
		Title:       view.Lesson.Title,
		Description: view.Lesson.Description,
		Count:       count,
		Context:     extra,
	})
	if len(slides) == 0 {
		return nil, fail("generate slides", fmt.Errorf("%w: %s", ErrNoSlides, out.Reason))
	}
	slides = course.RenumberSlides(slides, nextSlideOrder(view.Slides))

	saved, err := s.repos.Slides.CreateSlides(ctx, lessonID, slides)
	if err != nil {
		return nil, fail("save slides", notFound(err, ErrLessonNotFound))
	}
	s.log.Info("slides saved", "lesson_id", lessonID, "count", len(saved), "rejected", len(out.Rejected))
	return saved, nil
}

// ReflectionFeedback returns AI feedback on a learner's reflection.
func (s *Service) ReflectionFeedback(ctx context.Context, prompt, reflection string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", invalid("prompt", "must not be empty")
	}
	if s.gen == nil {
		return "", fail("get feedback", errNoGenerator)
	}
	text, err := s.gen.ReflectionFeedback(ctx, prompt, strings.TrimSpace(reflection))
	if err != nil {
		return "", fail("get feedback", err)
	}
	return text, nil
}

// Clarify returns one question that narrows down a course topic.
func (s *Service) Clarify(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", invalid("topic", "must not be empty")
	}
	if s.gen == nil {
		return "", fail("get clarification", errNoGenerator)
	}
	text, err := s.gen.Clarify(ctx, topic)
	if err != nil {
		return "", fail("get clarification", err)
	}
	return text, nil
}
