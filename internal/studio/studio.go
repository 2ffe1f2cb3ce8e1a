// Package studio is the authoring service shared by the CLI, the HTTP API
// and the terminal player. It orchestrates the store and the generator.
package studio

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/generate"
	"github.com/aeriel/clai/internal/logger"
	"github.com/aeriel/clai/internal/slide"
	"github.com/aeriel/clai/internal/store"
)

// Limits on a single generation request.
const (
	MaxLessonCount = 20
	MaxSlideCount  = 30
)

// Generator produces content. *generate.Generator satisfies it.
type Generator interface {
	GenerateLessons(ctx context.Context, req generate.LessonRequest) ([]course.LessonStub, generate.Outcome)
	GenerateSlides(ctx context.Context, req generate.SlideRequest) ([]slide.Slide, generate.Outcome)
	ReflectionFeedback(ctx context.Context, prompt, reflection string) (string, error)
	Clarify(ctx context.Context, topic string) (string, error)
}

// Repos bundles the repositories the service writes through.
type Repos struct {
	Courses store.CourseRepo
	Lessons store.LessonRepo
	Slides  store.SlideRepo
}

// ReposFrom returns the repositories of an open store.
func ReposFrom(s *store.Store) Repos {
	return Repos{
		Courses: s.CourseRepo(),
		Lessons: s.LessonRepo(),
		Slides:  s.SlideRepo(),
	}
}

// Service implements the authoring operations.
type Service struct {
	repos Repos
	gen   Generator
	log   *logger.Logger
	busy  busySet
}

// New creates a Service. gen may be nil when no provider is configured;
// generation calls then fail with an OpError.
func New(repos Repos, gen Generator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repos: repos, gen: gen, log: log}
}

// CourseInput holds the fields of a new course.
type CourseInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// CoursePatch holds the course fields to change. Nil fields are kept.
type CoursePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Approved    *bool   `json:"approved"`
	Approver    *string `json:"approver"`
}

// LessonInput holds the fields of a new lesson.
type LessonInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LessonPatch holds the lesson fields to change. Order changes go through
// MoveLesson.
type LessonPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Approved    *bool   `json:"approved"`
	Approver    *string `json:"approver"`
}

func (s *Service) CreateCourse(ctx context.Context, in CourseInput) (course.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return course.Course{}, invalid("title", "must not be empty")
	}
	c, err := s.repos.Courses.CreateCourse(ctx, store.CourseFields{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
	})
	if err != nil {
		return course.Course{}, fail("create course", err)
	}
	s.log.Info("course created", "course_id", c.ID, "title", c.Title)
	return c, nil
}

func (s *Service) ListCourses(ctx context.Context) ([]course.Course, error) {
	cs, err := s.repos.Courses.ListCourses(ctx)
	if err != nil {
		return nil, fail("load courses", err)
	}
	return cs, nil
}

func (s *Service) GetCourse(ctx context.Context, id string) (course.Course, error) {
	c, err := s.repos.Courses.GetCourse(ctx, id)
	if err != nil {
		return course.Course{}, fail("load course", notFound(err, ErrCourseNotFound))
	}
	return c, nil
}

func (s *Service) UpdateCourse(ctx context.Context, id string, p CoursePatch) (course.Course, error) {
	c, err := s.GetCourse(ctx, id)
	if err != nil {
		return course.Course{}, err
	}
	f := store.CourseFields{
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Approved:    c.Approved,
		Approver:    c.Approver,
	}
	if p.Title != nil {
		f.Title = strings.TrimSpace(*p.Title)
		if f.Title == "" {
			return course.Course{}, invalid("title", "must not be empty")
		}
	}
	if p.Description != nil {
		f.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		f.Category = strings.TrimSpace(*p.Category)
	}
	if p.Approved != nil {
		f.Approved = *p.Approved
	}
	if p.Approver != nil {
		f.Approver = strings.TrimSpace(*p.Approver)
	}
	updated, err := s.repos.Courses.UpdateCourse(ctx, id, f)
	if err != nil {
		return course.Course{}, fail("update course", notFound(err, ErrCourseNotFound))
	}
	return updated, nil
}

// ApproveCourse marks the course approved by approver.
func (s *Service) ApproveCourse(ctx context.Context, id, approver string) (course.Course, error) {
	approved := true
	return s.UpdateCourse(ctx, id, CoursePatch{Approved: &approved, Approver: &approver})
}

// ListLessons returns the course's lessons in order.
func (s *Service) ListLessons(ctx context.Context, courseID string) ([]course.Lesson, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	ls, err := s.repos.Lessons.ListLessons(ctx, courseID)
	if err != nil {
		return nil, fail("load lessons", err)
	}
	return ls, nil
}

// CreateLesson appends a lesson to the course.
func (s *Service) CreateLesson(ctx context.Context, courseID string, in LessonInput) (course.Lesson, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return course.Lesson{}, invalid("title", "must not be empty")
	}
	existing, err := s.ListLessons(ctx, courseID)
	if err != nil {
		return course.Lesson{}, err
	}
	l, err := s.repos.Lessons.CreateLesson(ctx, store.LessonFields{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Order:       nextLessonOrder(existing),
	}, courseID)
	if err != nil {
		return course.Lesson{}, fail("add lesson", notFound(err, ErrCourseNotFound))
	}
	return l, nil
}

func (s *Service) GetLesson(ctx context.Context, id string) (course.Lesson, error) {
	l, err := s.repos.Lessons.GetLesson(ctx, id)
	if err != nil {
		return course.Lesson{}, fail("load lesson", notFound(err, ErrLessonNotFound))
	}
	return l, nil
}

func (s *Service) UpdateLesson(ctx context.Context, id string, p LessonPatch) (course.Lesson, error) {
	l, err := s.GetLesson(ctx, id)
	if err != nil {
		return course.Lesson{}, err
	}
	f := store.LessonFields{
		Title:       l.Title,
		Description: l.Description,
		Order:       l.Order,
		Approved:    l.Approved,
		Approver:    l.Approver,
	}
	if p.Title != nil {
		f.Title = strings.TrimSpace(*p.Title)
		if f.Title == "" {
			return course.Lesson{}, invalid("title", "must not be empty")
		}
	}
	if p.Description != nil {
		f.Description = strings.TrimSpace(*p.Description)
	}
	if p.Approved != nil {
		f.Approved = *p.Approved
	}
	if p.Approver != nil {
		f.Approver = strings.TrimSpace(*p.Approver)
	}
	updated, err := s.repos.Lessons.UpdateLesson(ctx, id, f)
	if err != nil {
		return course.Lesson{}, fail("update lesson", notFound(err, ErrLessonNotFound))
	}
	return updated, nil
}

// MoveLesson moves the lesson at index one step in the course order. An
// out-of-range move changes nothing and reports false.
func (s *Service) MoveLesson(ctx context.Context, courseID string, index int, d course.Direction) ([]course.Lesson, bool, error) {
	lessons, err := s.ListLessons(ctx, courseID)
	if err != nil {
		return nil, false, err
	}
	moved, changed, ok := course.MoveLesson(lessons, index, d)
	if !ok {
		return lessons, false, nil
	}
	if _, err := s.repos.Lessons.BulkUpsertLessons(ctx, courseID, changed); err != nil {
		return lessons, false, fail("update lesson", err)
	}
	s.log.Debug("lesson moved", "course_id", courseID, "index", index, "direction", d.String())
	return moved, true, nil
}

// LessonView is a lesson together with its slides.
type LessonView struct {
	Lesson course.Lesson `json:"lesson"`
	Slides []slide.Slide `json:"slides"`
}

// LoadLesson fetches a lesson and its slides concurrently.
func (s *Service) LoadLesson(ctx context.Context, lessonID string) (LessonView, error) {
	var view LessonView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := s.GetLesson(gctx, lessonID)
		view.Lesson = l
		return err
	})
	g.Go(func() error {
		sl, err := s.repos.Slides.ListSlides(gctx, lessonID)
		if err != nil {
			return fail("load slides", err)
		}
		view.Slides = sl
		return nil
	})
	if err := g.Wait(); err != nil {
		return LessonView{}, err
	}
	return view, nil
}

// ListSlides returns the lesson's slides in order.
func (s *Service) ListSlides(ctx context.Context, lessonID string) ([]slide.Slide, error) {
	view, err := s.LoadLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return view.Slides, nil
}

// MoveSlide moves the slide at index one step and renumbers the lesson's
// slides 1..N. An out-of-range move changes nothing and reports false.
func (s *Service) MoveSlide(ctx context.Context, lessonID string, index int, d course.Direction) ([]slide.Slide, bool, error) {
	slides, err := s.ListSlides(ctx, lessonID)
	if err != nil {
		return nil, false, err
	}
	moved, ok := course.MoveSlide(slides, index, d)
	if !ok {
		return slides, false, nil
	}
	if err := s.repos.Slides.ReorderSlides(ctx, lessonID, moved); err != nil {
		return slides, false, fail("update slides", err)
	}
	s.log.Debug("slide moved", "lesson_id", lessonID, "index", index, "direction", d.String())
	return moved, true, nil
}

// EditSlide validates an edited slide and saves its question and content.
// The slide's type, lesson and order are kept from the stored copy.
func (s *Service) EditSlide(ctx context.Context, edited slide.Slide) (slide.Slide, error) {
	current, err := s.repos.Slides.GetSlide(ctx, edited.ID)
	if err != nil {
		return slide.Slide{}, fail("load slide", notFound(err, ErrSlideNotFound))
	}
	if edited.Content != nil && edited.Kind() != current.Kind() {
		return slide.Slide{}, fail("update slide", store.ErrKindChanged)
	}
	current.Question = edited.Question
	current.Content = edited.Content
	if err := slide.Check(current); err != nil {
		return slide.Slide{}, err
	}
	if err := s.repos.Slides.UpdateSlide(ctx, current); err != nil {
		return slide.Slide{}, fail("update slide", notFound(err, ErrSlideNotFound))
	}
	return current, nil
}

func nextLessonOrder(lessons []course.Lesson) int {
	next := 0
	for _, l := range lessons {
		if l.Order >= next {
			next = l.Order + 1
		}
	}
	return next
}

func nextSlideOrder(slides []slide.Slide) int {
	next := 1
	for _, sl := range slides {
		if sl.Order >= next {
			next = sl.Order + 1
		}
	}
	return next
}
