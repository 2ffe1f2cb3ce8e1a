// Package playback sequences the slides of a lesson and gates forward
// navigation on each slide's interaction rules.
package playback

import "github.com/aeriel/clai/internal/slide"

// Action is the primary navigation action offered to the learner.
type Action int

const (
	ActionContinue Action = iota
	ActionFinish
)

func (a Action) String() string {
	if a == ActionFinish {
		return "Finish"
	}
	return "Continue"
}

// Player walks an ordered slide sequence. The zero value is an empty,
// unfinished player; use New.
type Player struct {
	slides       []slide.Slide
	index        int
	canAdvance   bool
	finished     bool
	interactions []slide.Answer
	evaluations  []slide.Evaluation
}

// New starts playback at the first slide.
func New(slides []slide.Slide) *Player {
	p := &Player{
		slides:       append([]slide.Slide(nil), slides...),
		interactions: make([]slide.Answer, len(slides)),
		evaluations:  make([]slide.Evaluation, len(slides)),
	}
	p.enter(0)
	return p
}

// enter makes slide i current, restoring its default gate and then
// re-evaluating any interaction already recorded for it.
func (p *Player) enter(i int) {
	p.index = i
	if i >= len(p.slides) {
		p.canAdvance = false
		return
	}
	c := p.slides[i].Content
	p.canAdvance = slide.DefaultGate(c)
	if hasInteraction(p.interactions[i]) {
		ev := slide.Evaluate(c, p.interactions[i])
		p.evaluations[i] = ev
		p.canAdvance = ev.CanAdvance
	}
}

func hasInteraction(a slide.Answer) bool {
	return a.Choice != "" || len(a.Choices) > 0 || a.Revealed || a.Response != ""
}

// Len returns the number of slides.
func (p *Player) Len() int { return len(p.slides) }

// Index returns the current position.
func (p *Player) Index() int { return p.index }

// CanAdvance reports whether forward navigation is currently allowed.
func (p *Player) CanAdvance() bool { return p.canAdvance }

// Finished reports whether playback has terminated.
func (p *Player) Finished() bool { return p.finished }

// Current returns the current slide, or false for an empty lesson.
func (p *Player) Current() (slide.Slide, bool) {
	if p.index >= len(p.slides) {
		return slide.Slide{}, false
	}
	return p.slides[p.index], true
}

// Interaction returns what the learner recorded on the current slide and
// its last evaluation.
func (p *Player) Interaction() (slide.Answer, slide.Evaluation) {
	if p.index >= len(p.slides) {
		return slide.Answer{}, slide.Evaluation{}
	}
	return p.interactions[p.index], p.evaluations[p.index]
}

// IsLast reports whether the current slide is the final one.
func (p *Player) IsLast() bool {
	return len(p.slides) == 0 || p.index == len(p.slides)-1
}

// PrimaryAction is Finish on the last slide, Continue otherwise.
func (p *Player) PrimaryAction() Action {
	if p.IsLast() {
		return ActionFinish
	}
	return ActionContinue
}

// Progress returns the fraction of slides reached, in [0, 1].
func (p *Player) Progress() float64 {
	n := len(p.slides)
	if n == 0 || p.finished {
		return 1
	}
	return float64(p.index+1) / float64(n)
}

// Advance moves to the next slide. It is a no-op returning false when the
// current slide's gate is closed, on the last slide, or after Finish.
func (p *Player) Advance() bool {
	if p.finished || !p.canAdvance || p.index >= len(p.slides)-1 {
		return false
	}
	p.enter(p.index + 1)
	return true
}

// Retreat moves to the previous slide regardless of the gate.
func (p *Player) Retreat() bool {
	if p.finished || p.index <= 0 {
		return false
	}
	p.enter(p.index - 1)
	return true
}

// RecordAnswer evaluates an interaction with the current slide and updates
// the gate. Each call replaces the previous interaction.
func (p *Player) RecordAnswer(a slide.Answer) slide.Evaluation {
	if p.finished || p.index >= len(p.slides) {
		return slide.Evaluation{}
	}
	ev := slide.Evaluate(p.slides[p.index].Content, a)
	p.interactions[p.index] = a
	p.evaluations[p.index] = ev
	p.canAdvance = ev.CanAdvance
	return ev
}

// Finish terminates playback. It succeeds only on the last slide, or
// immediately for an empty lesson.
func (p *Player) Finish() bool {
	if p.finished || !p.IsLast() {
		return false
	}
	p.finished = true
	return true
}
