package courses

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/router"
	"github.com/aeriel/clai/internal/screens/lessons"
	"github.com/aeriel/clai/internal/studio"
)

type stubLibrary struct {
	courses []course.Course
	err     error
}

func (l *stubLibrary) ListCourses(context.Context) ([]course.Course, error) {
	return l.courses, l.err
}
func (l *stubLibrary) ListLessons(context.Context, string) ([]course.Lesson, error) {
	return nil, nil
}
func (l *stubLibrary) LoadLesson(context.Context, string) (studio.LessonView, error) {
	return studio.LessonView{}, nil
}
func (l *stubLibrary) ReflectionFeedback(context.Context, string, string) (string, error) {
	return "", nil
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestCoursesScreen_OpenCourse(t *testing.T) {
	lib := &stubLibrary{courses: []course.Course{
		{ID: "c1", Title: "Car Mechanics", Category: "Auto"},
		{ID: "c2", Title: "Bread Baking"},
	}}
	s := New(lib)
	scr, _ := s.Update(s.Init()())

	view := scr.View(100, 30)
	if !strings.Contains(view, "Car Mechanics") || !strings.Contains(view, "Bread Baking") {
		t.Fatalf("view missing course titles:\n%s", view)
	}

	scr, _ = scr.Update(specialKey(tea.KeyDown))
	_, cmd := scr.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	ls, ok := push.Screen.(*lessons.LessonsScreen)
	if !ok {
		t.Fatalf("pushed %T, want *lessons.LessonsScreen", push.Screen)
	}
	if ls.Title() != "Bread Baking" {
		t.Errorf("Title() = %q, want Bread Baking", ls.Title())
	}
}

func TestCoursesScreen_Empty(t *testing.T) {
	s := New(&stubLibrary{})
	scr, _ := s.Update(s.Init()())
	if view := scr.View(100, 30); !strings.Contains(view, "No courses yet") {
		t.Errorf("view = %q, want empty message", view)
	}
}

func TestCoursesScreen_Error(t *testing.T) {
	s := New(&stubLibrary{err: errors.New("disk on fire")})
	scr, _ := s.Update(s.Init()())
	if view := scr.View(100, 30); !strings.Contains(view, "Something went wrong.") {
		t.Errorf("view = %q, want generic error", view)
	}
}
