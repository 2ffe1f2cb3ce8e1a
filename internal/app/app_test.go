package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/router"
	"github.com/aeriel/clai/internal/studio"
)

type emptyLibrary struct{}

func (emptyLibrary) ListCourses(context.Context) ([]course.Course, error) { return nil, nil }
func (emptyLibrary) ListLessons(context.Context, string) ([]course.Lesson, error) {
	return nil, nil
}
func (emptyLibrary) LoadLesson(context.Context, string) (studio.LessonView, error) {
	return studio.LessonView{}, nil
}
func (emptyLibrary) ReflectionFeedback(context.Context, string, string) (string, error) {
	return "", nil
}

func TestAppModel_RootScreen(t *testing.T) {
	m := newAppModel(emptyLibrary{})
	if m.router.Active().Title() != "Courses" {
		t.Errorf("root title = %q, want Courses", m.router.Active().Title())
	}
	if m.Init() == nil {
		t.Error("expected the root screen to load courses on start")
	}
}

func TestAppModel_EscAtRootIsNoop(t *testing.T) {
	m := newAppModel(emptyLibrary{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		if _, ok := cmd().(router.PopScreenMsg); ok {
			t.Error("Esc at the root must not pop")
		}
	}
}
