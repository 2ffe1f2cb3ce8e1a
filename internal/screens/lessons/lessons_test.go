package lessons

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/router"
	"github.com/aeriel/clai/internal/screens/player"
	"github.com/aeriel/clai/internal/studio"
)

type stubLibrary struct {
	lessons  []course.Lesson
	courseID string
}

func (l *stubLibrary) ListCourses(context.Context) ([]course.Course, error) { return nil, nil }
func (l *stubLibrary) ListLessons(_ context.Context, courseID string) ([]course.Lesson, error) {
	l.courseID = courseID
	return l.lessons, nil
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

func TestLessonsScreen_PlayLesson(t *testing.T) {
	lib := &stubLibrary{lessons: []course.Lesson{
		{ID: "l1", Title: "Engine basics", Order: 0},
		{ID: "l2", Title: "Brakes", Order: 1},
	}}
	s := New(lib, course.Course{ID: "c1", Title: "Car Mechanics", Description: "How cars work"})
	scr, _ := s.Update(s.Init()())
	if lib.courseID != "c1" {
		t.Errorf("listed lessons of %q, want c1", lib.courseID)
	}

	view := scr.View(100, 30)
	if !strings.Contains(view, "1. Engine basics") || !strings.Contains(view, "2. Brakes") {
		t.Fatalf("view missing numbered lessons:\n%s", view)
	}

	_, cmd := scr.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*player.PlayerScreen); !ok {
		t.Fatalf("pushed %T, want *player.PlayerScreen", push.Screen)
	}
	if push.Screen.Title() != "Engine basics" {
		t.Errorf("Title() = %q", push.Screen.Title())
	}
}

func TestLessonsScreen_Back(t *testing.T) {
	s := New(&stubLibrary{}, course.Course{ID: "c1"})
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
