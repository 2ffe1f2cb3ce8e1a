// Package lessons lists the lessons of one course.
package lessons

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/router"
	"github.com/aeriel/clai/internal/screen"
	"github.com/aeriel/clai/internal/screens/player"
	"github.com/aeriel/clai/internal/studio"
	"github.com/aeriel/clai/internal/ui/components"
	"github.com/aeriel/clai/internal/ui/layout"
	"github.com/aeriel/clai/internal/ui/theme"
)

type lessonsLoadedMsg struct {
	Lessons []course.Lesson
	Err     error
}

// LessonsScreen shows a course outline and opens lessons in the player.
type LessonsScreen struct {
	lib     screen.Library
	course  course.Course
	lessons []course.Lesson
	menu    components.Menu
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*LessonsScreen)(nil)
var _ screen.KeyHintProvider = (*LessonsScreen)(nil)

func New(lib screen.Library, c course.Course) *LessonsScreen {
	return &LessonsScreen{lib: lib, course: c}
}

func (s *LessonsScreen) Init() tea.Cmd {
	id := s.course.ID
	return func() tea.Msg {
		ls, err := s.lib.ListLessons(context.Background(), id)
		return lessonsLoadedMsg{Lessons: ls, Err: err}
	}
}

func (s *LessonsScreen) Title() string {
	return s.course.Title
}

func (s *LessonsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = studio.UserMessage(msg.Err)
			return s, nil
		}
		s.lessons = msg.Lessons
		s.menu = components.NewMenu(s.menuItems())
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LessonsScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(s.lessons))
	for i, l := range s.lessons {
		l := l
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("%d. %s", i+1, l.Title),
			Detail: l.Description,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: player.New(s.lib, l)}
				}
			},
		})
	}
	return items
}

func (s *LessonsScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\n" + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading lessons...")
	case len(s.lessons) == 0:
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  This course has no lessons yet.")
	}

	w := layout.WrapWidth(width)
	var header string
	if s.course.Description != "" {
		header = theme.Subtitle.Width(w).Render(s.course.Description) + "\n\n"
	}
	body := header + s.menu.View(w)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(w).Render(body))
}
