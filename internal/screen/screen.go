package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/studio"
	"github.com/aeriel/clai/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Library is the read side of the authoring service the screens browse.
// *studio.Service satisfies it.
type Library interface {
	ListCourses(ctx context.Context) ([]course.Course, error)
	ListLessons(ctx context.Context, courseID string) ([]course.Lesson, error)
	LoadLesson(ctx context.Context, lessonID string) (studio.LessonView, error)
	ReflectionFeedback(ctx context.Context, prompt, reflection string) (string, error)
}

// StatusProvider is an optional interface for screens that show a short
// status, such as playback progress, on the right of the header.
type StatusProvider interface {
	Status() string
}
