package player

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/aeriel/clai/internal/playback"
	"github.com/aeriel/clai/internal/slide"
	"github.com/aeriel/clai/internal/ui/components"
	"github.com/aeriel/clai/internal/ui/layout"
	"github.com/aeriel/clai/internal/ui/theme"
)

func slidePosition(p *playback.Player) string {
	return fmt.Sprintf("Slide %d/%d", p.Index()+1, p.Len())
}

func (s *PlayerScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\n" + s.errMsg)
	case !s.loaded || s.p == nil:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading lesson...")
	case s.p.Len() == 0:
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  This lesson has no slides yet.")
	case s.p.Finished():
		return s.renderComplete(width)
	}

	w := layout.WrapWidth(width)
	cur, _ := s.p.Current()
	a, ev := s.p.Interaction()

	var b strings.Builder
	b.WriteString(components.ProgressBar(slidePosition(s.p), s.p.Progress(), w))
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(w).Render(cur.Question))
	b.WriteString("\n\n")

	switch c := cur.Content.(type) {
	case slide.Markdown:
		b.WriteString(theme.Body.Width(w).Render(c.Text))
	case slide.SingleChoice:
		b.WriteString(s.renderOptions(c.Options, func(opt string) bool { return opt == a.Choice }, ev, false, w))
	case slide.MultipleChoice:
		b.WriteString(theme.Hint.Render("Select all that apply."))
		b.WriteString("\n")
		b.WriteString(s.renderOptions(c.Options, func(opt string) bool { return s.picked[opt] }, ev, true, w))
	case slide.Reveal:
		if a.Revealed {
			b.WriteString(theme.Card.Width(w).Render(theme.Correct.Render(c.CorrectAnswer)))
		} else {
			b.WriteString(theme.Card.Width(w).Render(theme.Hint.Render("Think about it, then reveal the answer.")))
		}
	case slide.Reflection:
		if c.ResponseContext != "" {
			b.WriteString(theme.Subtitle.Width(w).Render(c.ResponseContext))
			b.WriteString("\n\n")
		}
		b.WriteString(s.input.View())
		b.WriteString(s.renderReflectionFeedback(w))
	}

	b.WriteString(renderVerdict(ev, w))
	b.WriteString("\n\n")
	b.WriteString(components.NewButton(s.p.PrimaryAction().String(), s.p.CanAdvance()).View())

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(w).Render(b.String()))
}

// renderOptions draws a choice list. Markers follow the selection; after a
// wrong check the selected options are tinted.
func (s *PlayerScreen) renderOptions(options []string, chosen func(string) bool, ev slide.Evaluation, multi bool, width int) string {
	var b strings.Builder
	for i, opt := range options {
		marker := "( )"
		if multi {
			marker = "[ ]"
		}
		if chosen(opt) {
			marker = "(•)"
			if multi {
				marker = "[x]"
			}
		}

		style := theme.Unselected
		switch {
		case chosen(opt) && ev.Verdict == slide.VerdictCorrect && !multi:
			style = theme.Correct
		case chosen(opt) && ev.Verdict == slide.VerdictWrong && !multi:
			style = theme.Incorrect
		case i == s.cursor:
			style = theme.Selected
		}

		prefix := "  "
		if i == s.cursor {
			prefix = "▸ "
		}
		b.WriteString(style.MaxWidth(width).Render(prefix + marker + " " + opt))
		b.WriteString("\n")
	}
	return b.String()
}

func renderVerdict(ev slide.Evaluation, width int) string {
	var line string
	switch ev.Verdict {
	case slide.VerdictCorrect:
		line = theme.Correct.Render("Correct!")
	case slide.VerdictWrong:
		line = theme.Incorrect.Render("Not quite. Try again.")
	default:
		return ""
	}
	if ev.Feedback != "" {
		line += "\n" + theme.Body.Width(width).Render(ev.Feedback)
	}
	return "\n" + line
}

func (s *PlayerScreen) renderReflectionFeedback(width int) string {
	fb := s.feedback[s.p.Index()]
	if fb == nil {
		return ""
	}
	switch {
	case fb.pending:
		return "\n\n" + theme.Hint.Render("Thinking about your reflection...")
	case fb.failed:
		return "\n\n" + theme.Notice.Render("Feedback is unavailable right now.")
	default:
		return "\n\n" + theme.Card.Width(width).Render(theme.Body.Render(fb.text))
	}
}

func (s *PlayerScreen) renderComplete(width int) string {
	msg := theme.Title.Render("Lesson complete") + "\n\n" +
		theme.Subtitle.Render(fmt.Sprintf("You finished %q.", s.lesson.Title)) + "\n\n" +
		theme.Hint.Render("Press any key to return to the lessons.")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "\n\n"+msg)
}
