package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/generate"
	"github.com/aeriel/clai/internal/llm"
	"github.com/aeriel/clai/internal/slide"
	"github.com/aeriel/clai/internal/store"
)

func newTestService(t *testing.T, responses ...llm.MockResponse) (*Service, *llm.MockProvider) {
	t.Helper()
	return newServiceWith(t, llm.NewMockProvider(responses...))
}

func newServiceWith[P llm.Provider](t *testing.T, p P) (*Service, P) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:studio_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(ReposFrom(st), generate.New(p, generate.DefaultConfig(), nil), nil), p
}

const lessonsJSON = `[
	{"lesson_title": "Engine basics", "lesson_description": "What's under the hood", "lesson_order": 0},
	{"lesson_title": "Brakes", "lesson_description": "Stopping safely", "lesson_order": 1},
	{"lesson_title": "Tires", "lesson_description": "Pressure and tread", "lesson_order": 2}
]`

const slidesJSON = "```json\n" + `[
	{"type": "markdown", "question": "Brake systems", "order": 1, "content": {"text": "Pads squeeze the rotor."}},
	{"type": "single_choice", "question": "What squeezes the rotor?", "order": 2,
	 "content": {"options": ["Pads", "Tires"], "correct_answer": "Pads",
	             "correct_answer_description": "Yes.", "wrong_answer_description": "No."}},
	{"type": "markdown", "question": "Brake fluid", "order": 3, "content": {"text": "Fluid transfers pressure."}},
	{"type": "multiple_choice", "question": "Which are brake parts?", "order": 4,
	 "content": {"options": ["Pads", "Rotor", "Spark plug"], "correct_answer": ["Pads", "Rotor"],
	             "correct_answer_description": "Yes.", "wrong_answer_description": "No."}},
	{"type": "reveal", "question": "What does ABS stand for?", "order": 5, "content": {"answer": "Anti-lock"}}
]` + "\n```"

func TestCarMechanicsEndToEnd(t *testing.T) {
	svc, _ := newTestService(t, llm.TextResponse(lessonsJSON), llm.TextResponse(slidesJSON))
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Car Mechanics", Description: "Learn how cars work", Category: "Auto"})
	require.NoError(t, err)

	lessons, err := svc.GenerateLessons(ctx, c.ID, 3)
	require.NoError(t, err)
	require.Len(t, lessons, 3)

	stored, err := svc.ListLessons(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for i, l := range stored {
		assert.Equal(t, i, l.Order)
		assert.Equal(t, c.ID, l.CourseID)
	}

	slides, err := svc.GenerateSlides(ctx, stored[0].ID, 5, "")
	require.NoError(t, err)
	assert.Len(t, slides, 4)

	view, err := svc.LoadLesson(ctx, stored[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Engine basics", view.Lesson.Title)
	require.Len(t, view.Slides, 4)
	for i, sl := range view.Slides {
		assert.Equal(t, i+1, sl.Order)
	}
	assert.Equal(t, slide.KindMultipleChoice, view.Slides[3].Kind())
}

func TestGenerateSlides_AppendsAfterExisting(t *testing.T) {
	one := `[{"type": "markdown", "question": "Q", "order": 9, "content": {"text": "T"}}]`
	svc, _ := newTestService(t, llm.TextResponse(lessonsJSON), llm.TextResponse(one), llm.TextResponse(one))
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Cars"})
	require.NoError(t, err)
	lessons, err := svc.GenerateLessons(ctx, c.ID, 3)
	require.NoError(t, err)

	_, err = svc.GenerateSlides(ctx, lessons[0].ID, 1, "")
	require.NoError(t, err)
	second, err := svc.GenerateSlides(ctx, lessons[0].ID, 1, "")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 2, second[0].Order)
}

func TestGenerateSlides_EmptyIsError(t *testing.T) {
	svc, _ := newTestService(t, llm.TextResponse(lessonsJSON), llm.TextResponse("no JSON here"))
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Cars"})
	require.NoError(t, err)
	lessons, err := svc.GenerateLessons(ctx, c.ID, 3)
	require.NoError(t, err)

	_, err = svc.GenerateSlides(ctx, lessons[0].ID, 3, "")
	require.ErrorIs(t, err, ErrNoSlides)
	assert.Equal(t, "Failed to generate slides.", UserMessage(err))

	slides, err := svc.ListSlides(ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.Empty(t, slides)
}

func TestGenerate_CountBounds(t *testing.T) {
	svc, mock := newTestService(t)
	ctx := context.Background()

	for _, n := range []int{0, -1, MaxLessonCount + 1} {
		_, err := svc.GenerateLessons(ctx, "any", n)
		var input *InputError
		assert.ErrorAs(t, err, &input, "count %d", n)
	}
	_, err := svc.OutlineCourse(ctx, "Cars", "", 0)
	assert.Error(t, err)
	assert.Equal(t, 0, mock.CallCount())
}

func TestGenerateLessons_MissingCourse(t *testing.T) {
	svc, mock := newTestService(t)
	_, err := svc.GenerateLessons(context.Background(), "missing", 3)
	require.ErrorIs(t, err, ErrCourseNotFound)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, "Course not found.", UserMessage(err))
	assert.Equal(t, 0, mock.CallCount())
}

func TestOutlineCourse_FailSoft(t *testing.T) {
	svc, _ := newTestService(t, llm.TextResponse("Sorry, I cannot do that."))
	stubs, err := svc.OutlineCourse(context.Background(), "Cars", "Engines", 3)
	require.NoError(t, err)
	assert.NotNil(t, stubs)
	assert.Empty(t, stubs)
}

// blockingProvider holds every call until release is closed.
type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.entered <- struct{}{}
	<-p.release
	return &llm.Response{Text: lessonsJSON, StopReason: "end"}, nil
}

func (p *blockingProvider) ModelID() string { return "blocking" }

func TestGenerateLessons_BusyGuard(t *testing.T) {
	p := &blockingProvider{entered: make(chan struct{}, 1), release: make(chan struct{})}
	svc, _ := newServiceWith(t, p)
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Cars"})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.GenerateLessons(ctx, c.ID, 3)
		done <- err
	}()
	<-p.entered

	_, err = svc.GenerateLessons(ctx, c.ID, 3)
	require.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, "Generation is already in progress.", UserMessage(err))

	close(p.release)
	require.NoError(t, <-done)

	// The guard is released once the first call returns.
	p.release = make(chan struct{})
	close(p.release)
	_, err = svc.GenerateLessons(ctx, c.ID, 3)
	assert.NoError(t, err)
}

func TestMoveLesson(t *testing.T) {
	svc, _ := newTestService(t, llm.TextResponse(lessonsJSON))
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Cars"})
	require.NoError(t, err)
	_, err = svc.GenerateLessons(ctx, c.ID, 3)
	require.NoError(t, err)

	_, moved, err := svc.MoveLesson(ctx, c.ID, 0, course.Down)
	require.NoError(t, err)
	assert.True(t, moved)

	lessons, err := svc.ListLessons(ctx, c.ID)
	require.NoError(t, err)
	var titles []string
	for i, l := range lessons {
		titles = append(titles, l.Title)
		assert.Equal(t, i, l.Order)
	}
	assert.Equal(t, []string{"Brakes", "Engine basics", "Tires"}, titles)

	_, moved, err = svc.MoveLesson(ctx, c.ID, 0, course.Up)
	require.NoError(t, err)
	assert.False(t, moved)
	_, moved, err = svc.MoveLesson(ctx, c.ID, 2, course.Down)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestMoveSlide(t *testing.T) {
	svc, _ := newTestService(t, llm.TextResponse(lessonsJSON), llm.TextResponse(slidesJSON))
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Cars"})
	require.NoError(t, err)
	lessons, err := svc.GenerateLessons(ctx, c.ID, 3)
	require.NoError(t, err)
	_, err = svc.GenerateSlides(ctx, lessons[0].ID, 5, "")
	require.NoError(t, err)

	_, moved, err := svc.MoveSlide(ctx, lessons[0].ID, 3, course.Up)
	require.NoError(t, err)
	require.True(t, moved)

	slides, err := svc.ListSlides(ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Which are brake parts?", slides[2].Question)
	assert.Equal(t, "Brake fluid", slides[3].Question)
	for i, sl := range slides {
		assert.Equal(t, i+1, sl.Order)
	}
}

func TestEditSlide(t *testing.T) {
	svc, _ := newTestService(t, llm.TextResponse(lessonsJSON), llm.TextResponse(slidesJSON))
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Cars"})
	require.NoError(t, err)
	lessons, err := svc.GenerateLessons(ctx, c.ID, 3)
	require.NoError(t, err)
	slides, err := svc.GenerateSlides(ctx, lessons[0].ID, 5, "")
	require.NoError(t, err)

	sc := slides[1]
	content, ok := slide.SetListItem(sc.Content, "options", 1, "Wheels")
	require.True(t, ok)
	sc.Content = content
	sc.Question = "What presses on the rotor?"

	saved, err := svc.EditSlide(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Order)

	view, err := svc.LoadLesson(ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "What presses on the rotor?", view.Slides[1].Question)
	assert.Equal(t, []string{"Pads", "Wheels"}, view.Slides[1].Content.(slide.SingleChoice).Options)

	t.Run("invalid edit rejected", func(t *testing.T) {
		bad, ok := slide.SetScalar(sc.Content, "correct_answer", "Horn")
		require.True(t, ok)
		sc.Content = bad
		_, err := svc.EditSlide(ctx, sc)
		var rej *slide.Rejection
		require.ErrorAs(t, err, &rej)
		assert.True(t, strings.HasPrefix(UserMessage(err), "Slide is invalid"))
	})

	t.Run("type change rejected", func(t *testing.T) {
		sc.Content = slide.Markdown{Text: "now markdown"}
		_, err := svc.EditSlide(ctx, sc)
		assert.ErrorIs(t, err, store.ErrKindChanged)
	})

	t.Run("missing slide", func(t *testing.T) {
		_, err := svc.EditSlide(ctx, slide.Slide{ID: "nope", Question: "Q", Content: slide.Markdown{Text: "T"}})
		assert.ErrorIs(t, err, ErrSlideNotFound)
	})
}

func TestUpdateCourse_Patch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Cars", Description: "Engines", Category: "Auto"})
	require.NoError(t, err)

	title := "Car Mechanics"
	updated, err := svc.UpdateCourse(ctx, c.ID, CoursePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Car Mechanics", updated.Title)
	assert.Equal(t, "Engines", updated.Description)
	assert.Equal(t, "Auto", updated.Category)

	approved, err := svc.ApproveCourse(ctx, c.ID, "dana")
	require.NoError(t, err)
	assert.True(t, approved.Approved)
	assert.Equal(t, "dana", approved.Approver)

	empty := "  "
	_, err = svc.UpdateCourse(ctx, c.ID, CoursePatch{Title: &empty})
	var input *InputError
	assert.ErrorAs(t, err, &input)
}

func TestCreateLesson_Appends(t *testing.T) {
	svc, _ := newTestService(t, llm.TextResponse(lessonsJSON))
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Cars"})
	require.NoError(t, err)
	_, err = svc.GenerateLessons(ctx, c.ID, 3)
	require.NoError(t, err)

	l, err := svc.CreateLesson(ctx, c.ID, LessonInput{Title: "Electrics"})
	require.NoError(t, err)
	assert.Equal(t, 3, l.Order)

	title := "Electrical systems"
	l, err = svc.UpdateLesson(ctx, l.ID, LessonPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Electrical systems", l.Title)
	assert.Equal(t, 3, l.Order)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fail("update lesson", errors.New("disk full")), "Failed to update lesson."},
		{fail("load lesson", ErrLessonNotFound), "Lesson not found."},
		{invalid("count", "must be positive"), "Invalid count: must be positive."},
		{errors.New("boom"), "Something went wrong."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}

func TestNoGenerator(t *testing.T) {
	svc := New(Repos{}, nil, nil)
	_, err := svc.Clarify(context.Background(), "cars")
	var op *OpError
	require.ErrorAs(t, err, &op)
	assert.Equal(t, "get clarification", op.Op)
}

// targetRecorder notes the generation target of every call.
type targetRecorder struct {
	*llm.MockProvider
	targets []string
}

func (p *targetRecorder) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.targets = append(p.targets, llm.TargetFrom(ctx))
	return p.MockProvider.Generate(ctx, req)
}

func TestGenerate_TagsTarget(t *testing.T) {
	p := &targetRecorder{MockProvider: llm.NewMockProvider(llm.TextResponse(lessonsJSON), llm.TextResponse(slidesJSON))}
	svc, _ := newServiceWith(t, p)
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Cars"})
	require.NoError(t, err)
	ls, err := svc.GenerateLessons(ctx, c.ID, 3)
	require.NoError(t, err)
	_, err = svc.GenerateSlides(ctx, ls[0].ID, 5, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"course:" + c.ID, "lesson:" + ls[0].ID}, p.targets)
}
