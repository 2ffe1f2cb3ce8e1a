// Package courses lists the courses in the library.
package courses

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/router"
	"github.com/aeriel/clai/internal/screen"
	"github.com/aeriel/clai/internal/screens/lessons"
	"github.com/aeriel/clai/internal/studio"
	"github.com/aeriel/clai/internal/ui/components"
	"github.com/aeriel/clai/internal/ui/layout"
	"github.com/aeriel/clai/internal/ui/theme"
)

type coursesLoadedMsg struct {
	Courses []course.Course
	Err     error
}

// CoursesScreen is the entry screen of the player.
type CoursesScreen struct {
	lib     screen.Library
	courses []course.Course
	menu    components.Menu
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*CoursesScreen)(nil)
var _ screen.KeyHintProvider = (*CoursesScreen)(nil)

func New(lib screen.Library) *CoursesScreen {
	return &CoursesScreen{lib: lib}
}

func (s *CoursesScreen) Init() tea.Cmd {
	return func() tea.Msg {
		cs, err := s.lib.ListCourses(context.Background())
		return coursesLoadedMsg{Courses: cs, Err: err}
	}
}

func (s *CoursesScreen) Title() string {
	return "Courses"
}

func (s *CoursesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "r", Description: "Refresh"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = studio.UserMessage(msg.Err)
			return s, nil
		}
		s.errMsg = ""
		s.courses = msg.Courses
		s.menu = components.NewMenu(s.menuItems())
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			s.loaded = false
			return s, s.Init()
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *CoursesScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(s.courses))
	for _, c := range s.courses {
		c := c
		detail := c.Description
		if c.Category != "" {
			detail = fmt.Sprintf("[%s] %s", c.Category, detail)
		}
		items = append(items, components.MenuItem{
			Label:  c.Title,
			Detail: detail,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: lessons.New(s.lib, c)}
				}
			},
		})
	}
	return items
}

func (s *CoursesScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\n" + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading courses...")
	case len(s.courses) == 0:
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No courses yet. Create one with `clai course create`.")
	}

	w := layout.WrapWidth(width)
	body := theme.Subtitle.Render(fmt.Sprintf("%d courses", len(s.courses))) + "\n\n" + s.menu.View(w)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(w).Render(body))
}
