// Package player plays a lesson slide by slide in the terminal.
package player

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/playback"
	"github.com/aeriel/clai/internal/router"
	"github.com/aeriel/clai/internal/screen"
	"github.com/aeriel/clai/internal/slide"
	"github.com/aeriel/clai/internal/studio"
	"github.com/aeriel/clai/internal/ui/components"
	"github.com/aeriel/clai/internal/ui/layout"
)

const reflectionCharLimit = 2000

// feedback is the generated response to one submitted reflection.
type feedback struct {
	response string
	text     string
	pending  bool
	failed   bool
}

// PlayerScreen drives a playback.Player over one lesson.
type PlayerScreen struct {
	lib    screen.Library
	lesson course.Lesson

	p      *playback.Player
	loaded bool
	errMsg string

	// Selection state for the current slide.
	cursor int
	picked map[string]bool
	input  components.TextInput

	feedback map[int]*feedback
}

var _ screen.Screen = (*PlayerScreen)(nil)
var _ screen.KeyHintProvider = (*PlayerScreen)(nil)
var _ screen.StatusProvider = (*PlayerScreen)(nil)

func New(lib screen.Library, lesson course.Lesson) *PlayerScreen {
	return &PlayerScreen{
		lib:      lib,
		lesson:   lesson,
		picked:   make(map[string]bool),
		input:    components.NewTextInput("Type your reflection...", reflectionCharLimit),
		feedback: make(map[int]*feedback),
	}
}

func (s *PlayerScreen) Init() tea.Cmd {
	id := s.lesson.ID
	return func() tea.Msg {
		view, err := s.lib.LoadLesson(context.Background(), id)
		return lessonLoadedMsg{View: view, Err: err}
	}
}

func (s *PlayerScreen) Title() string {
	return s.lesson.Title
}

// Status shows the slide position while playing.
func (s *PlayerScreen) Status() string {
	if s.p == nil || s.p.Len() == 0 {
		return ""
	}
	if s.p.Finished() {
		return "Complete"
	}
	return slidePosition(s.p)
}

func (s *PlayerScreen) KeyHints() []layout.KeyHint {
	if s.p == nil || s.p.Finished() || s.p.Len() == 0 {
		return []layout.KeyHint{{Key: "Any key", Description: "Back"}}
	}
	cur, _ := s.p.Current()
	hints := make([]layout.KeyHint, 0, 5)
	switch cur.Content.(type) {
	case slide.SingleChoice:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Choose"},
			layout.KeyHint{Key: "Enter", Description: "Check"})
	case slide.MultipleChoice:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Move"},
			layout.KeyHint{Key: "Space", Description: "Toggle"},
			layout.KeyHint{Key: "Enter", Description: "Check"})
	case slide.Reveal:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Reveal"})
	case slide.Reflection:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Submit"})
	default:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: s.p.PrimaryAction().String()})
	}
	if s.p.Index() > 0 {
		hints = append(hints, layout.KeyHint{Key: "PgUp", Description: "Previous"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *PlayerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = studio.UserMessage(msg.Err)
			return s, nil
		}
		s.lesson = msg.View.Lesson
		s.p = playback.New(msg.View.Slides)
		return s, s.syncSelection()

	case reflectionFeedbackMsg:
		fb := s.feedback[msg.Index]
		if fb == nil || fb.response != msg.Response {
			// A newer reflection replaced this one.
			return s, nil
		}
		fb.pending = false
		fb.text = msg.Text
		fb.failed = msg.Err != nil
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.onReflection() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" || (s.p != nil && (s.p.Finished() || s.p.Len() == 0)) {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.p == nil {
		return s, nil
	}

	key := msg.String()
	if key == "pgup" || (!s.onReflection() && (key == "left" || key == "p")) {
		if s.p.Retreat() {
			return s, s.syncSelection()
		}
		return s, nil
	}

	cur, _ := s.p.Current()
	switch c := cur.Content.(type) {
	case slide.SingleChoice:
		switch key {
		case "up", "k":
			s.moveCursor(-1, len(c.Options))
		case "down", "j":
			s.moveCursor(1, len(c.Options))
		case "enter":
			a, _ := s.p.Interaction()
			if choice := c.Options[s.cursor]; choice != a.Choice {
				s.p.RecordAnswer(slide.SelectOne(choice))
				return s, nil
			}
			return s, s.primary()
		}

	case slide.MultipleChoice:
		switch key {
		case "up", "k":
			s.moveCursor(-1, len(c.Options))
		case "down", "j":
			s.moveCursor(1, len(c.Options))
		case "space", " ":
			opt := c.Options[s.cursor]
			s.picked[opt] = !s.picked[opt]
		case "enter":
			a, _ := s.p.Interaction()
			sel := s.selection(c.Options)
			if !equalStrings(sel, a.Choices) {
				// An empty selection is recorded too so the gate closes.
				s.p.RecordAnswer(slide.SelectMany(sel...))
				return s, nil
			}
			return s, s.primary()
		}

	case slide.Reveal:
		switch key {
		case "r", "enter":
			if a, _ := s.p.Interaction(); !a.Revealed {
				s.p.RecordAnswer(slide.RevealAnswer())
				return s, nil
			}
			if key == "enter" {
				return s, s.primary()
			}
		}

	case slide.Reflection:
		if key != "enter" {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		a, _ := s.p.Interaction()
		if resp := s.input.Value(); resp != "" && resp != a.Response {
			s.p.RecordAnswer(slide.Reflect(resp))
			return s, s.requestFeedback(cur, resp)
		}
		return s, s.primary()

	default:
		if key == "enter" {
			return s, s.primary()
		}
	}
	return s, nil
}

// primary runs the Continue or Finish action when the gate is open.
func (s *PlayerScreen) primary() tea.Cmd {
	if !s.p.CanAdvance() {
		return nil
	}
	if s.p.PrimaryAction() == playback.ActionFinish {
		s.p.Finish()
		return nil
	}
	if s.p.Advance() {
		return s.syncSelection()
	}
	return nil
}

func (s *PlayerScreen) requestFeedback(cur slide.Slide, resp string) tea.Cmd {
	index := s.p.Index()
	s.feedback[index] = &feedback{response: resp, pending: true}
	prompt := cur.Question
	if r, ok := cur.Content.(slide.Reflection); ok && r.ResponseContext != "" {
		prompt += "\n" + r.ResponseContext
	}
	lib := s.lib
	return func() tea.Msg {
		text, err := lib.ReflectionFeedback(context.Background(), prompt, resp)
		return reflectionFeedbackMsg{Index: index, Response: resp, Text: text, Err: err}
	}
}

// syncSelection restores the cursor, toggles and input from the
// interaction recorded on the current slide.
func (s *PlayerScreen) syncSelection() tea.Cmd {
	s.cursor = 0
	s.picked = make(map[string]bool)
	s.input.SetValue("")

	cur, ok := s.p.Current()
	if !ok {
		return nil
	}
	a, _ := s.p.Interaction()
	switch c := cur.Content.(type) {
	case slide.SingleChoice:
		for i, opt := range c.Options {
			if opt == a.Choice {
				s.cursor = i
			}
		}
	case slide.MultipleChoice:
		for _, opt := range a.Choices {
			s.picked[opt] = true
		}
	case slide.Reflection:
		s.input.SetValue(a.Response)
		return s.input.Init()
	}
	return nil
}

func (s *PlayerScreen) onReflection() bool {
	if s.p == nil || s.p.Finished() {
		return false
	}
	cur, ok := s.p.Current()
	if !ok {
		return false
	}
	_, ok = cur.Content.(slide.Reflection)
	return ok
}

func (s *PlayerScreen) moveCursor(delta, n int) {
	next := s.cursor + delta
	if next >= 0 && next < n {
		s.cursor = next
	}
}

// selection returns the toggled options in display order.
func (s *PlayerScreen) selection(options []string) []string {
	var sel []string
	for _, opt := range options {
		if s.picked[opt] {
			sel = append(sel, opt)
		}
	}
	return sel
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
