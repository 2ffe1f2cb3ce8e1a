package slide

// Answer is the learner's interaction with the current slide. Only the
// fields relevant to the slide's kind are read.
type Answer struct {
	// Choice is the selected option of a single_choice slide.
	Choice string

	// Choices is the selected set of a multiple_choice slide.
	Choices []string

	// Revealed is set once the learner asks to see a reveal slide's answer.
	Revealed bool

	// Response is the learner's free-form reflection.
	Response string
}

// SelectOne answers a single_choice slide.
func SelectOne(option string) Answer { return Answer{Choice: option} }

// SelectMany answers a multiple_choice slide.
func SelectMany(options ...string) Answer { return Answer{Choices: options} }

// RevealAnswer marks a reveal slide as revealed.
func RevealAnswer() Answer { return Answer{Revealed: true} }

// Reflect records a reflection response.
func Reflect(response string) Answer { return Answer{Response: response} }

// Verdict is the outcome of a correctness check.
type Verdict int

const (
	VerdictNone Verdict = iota // No check applies, or nothing selected yet
	VerdictCorrect
	VerdictWrong
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictWrong:
		return "wrong"
	default:
		return "none"
	}
}

// Evaluation is the result of evaluating an answer against a slide.
type Evaluation struct {
	CanAdvance bool
	Verdict    Verdict

	// Feedback is the slide's correct or wrong description, if any.
	Feedback string
}

// DefaultGate reports whether a slide allows advancing before any
// interaction. Markdown and reflection slides do; choice and reveal slides
// do not.
func DefaultGate(c Content) bool {
	switch c.(type) {
	case Markdown, Reflection:
		return true
	default:
		return false
	}
}

// Evaluate applies the per-kind advance rule to an answer.
func Evaluate(c Content, a Answer) Evaluation {
	switch c := c.(type) {
	case Markdown:
		return Evaluation{CanAdvance: true}
	case Reflection:
		return Evaluation{CanAdvance: true}
	case Reveal:
		return Evaluation{CanAdvance: a.Revealed}
	case SingleChoice:
		if a.Choice == "" {
			return Evaluation{}
		}
		if a.Choice == c.CorrectAnswer {
			return Evaluation{CanAdvance: true, Verdict: VerdictCorrect, Feedback: c.CorrectAnswerDescription}
		}
		return Evaluation{Verdict: VerdictWrong, Feedback: c.WrongAnswerDescription}
	case MultipleChoice:
		if len(a.Choices) == 0 {
			return Evaluation{}
		}
		if sameSet(a.Choices, c.CorrectAnswer) {
			return Evaluation{CanAdvance: true, Verdict: VerdictCorrect, Feedback: c.CorrectAnswerDescription}
		}
		return Evaluation{Verdict: VerdictWrong, Feedback: c.WrongAnswerDescription}
	default:
		return Evaluation{}
	}
}

func sameSet(a, b []string) bool {
	as := toSet(a)
	bs := toSet(b)
	if len(as) != len(bs) {
		return false
	}
	for k := range as {
		if !bs[k] {
			return false
		}
	}
	return true
}

func toSet(list []string) map[string]bool {
	s := make(map[string]bool, len(list))
	for _, v := range list {
		s[v] = true
	}
	return s
}
