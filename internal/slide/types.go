package slide

import (
	"encoding/json"
	"fmt"
)

// Kind is the slide discriminator stored in the "type" field.
type Kind string

const (
	KindMarkdown       Kind = "markdown"
	KindSingleChoice   Kind = "single_choice"
	KindMultipleChoice Kind = "multiple_choice"
	KindReflection     Kind = "reflection"
	KindReveal         Kind = "reveal"
)

// Kinds returns every slide kind in canonical order.
func Kinds() []Kind {
	return []Kind{KindMarkdown, KindSingleChoice, KindMultipleChoice, KindReflection, KindReveal}
}

// ParseKind returns the Kind named by s, or false if s is not a known kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Slide is one interactive unit of a lesson. Content holds exactly one of
// the variant payloads below; its Kind is the slide's type.
type Slide struct {
	ID       string
	LessonID string

	// Question is the slide title or prompt.
	Question string

	// Order is the position within the lesson. Persisted slides are
	// numbered 1..N.
	Order int

	Content Content
}

// Kind returns the slide's discriminator.
func (s Slide) Kind() Kind {
	if s.Content == nil {
		return ""
	}
	return s.Content.Kind()
}

// Content is the sealed set of slide payloads.
type Content interface {
	Kind() Kind
	sealed()
}

// Markdown teaches a concept with formatted text.
type Markdown struct {
	Text string `json:"text"`
}

// SingleChoice is a question with one correct option.
type SingleChoice struct {
	Options                  []string `json:"options"`
	CorrectAnswer            string   `json:"correct_answer"`
	CorrectAnswerDescription string   `json:"correct_answer_description"`
	WrongAnswerDescription   string   `json:"wrong_answer_description"`
}

// MultipleChoice is a question with one or more correct options.
type MultipleChoice struct {
	Options                  []string `json:"options"`
	CorrectAnswer            []string `json:"correct_answer"`
	CorrectAnswerDescription string   `json:"correct_answer_description"`
	WrongAnswerDescription   string   `json:"wrong_answer_description"`
}

// Reflection asks the learner for a free-form response. ResponseContext
// guides the feedback generated for that response.
type Reflection struct {
	ResponseContext string `json:"response_context"`
}

// Reveal hides an answer until the learner asks to see it.
type Reveal struct {
	CorrectAnswer string `json:"correct_answer"`
}

func (Markdown) Kind() Kind       { return KindMarkdown }
func (SingleChoice) Kind() Kind   { return KindSingleChoice }
func (MultipleChoice) Kind() Kind { return KindMultipleChoice }
func (Reflection) Kind() Kind     { return KindReflection }
func (Reveal) Kind() Kind         { return KindReveal }

func (Markdown) sealed()       {}
func (SingleChoice) sealed()   {}
func (MultipleChoice) sealed() {}
func (Reflection) sealed()     {}
func (Reveal) sealed()         {}

// wireSlide is the JSON shape shared with generated output and the API.
type wireSlide struct {
	ID       string          `json:"id,omitempty"`
	LessonID string          `json:"lesson_id,omitempty"`
	Type     Kind            `json:"type"`
	Question string          `json:"question"`
	Order    int             `json:"order"`
	Content  json.RawMessage `json:"content"`
}

// MarshalJSON encodes the slide as {type, question, order, content}.
func (s Slide) MarshalJSON() ([]byte, error) {
	if s.Content == nil {
		return nil, fmt.Errorf("slide %q has no content", s.ID)
	}
	content, err := json.Marshal(s.Content)
	if err != nil {
		return nil, fmt.Errorf("marshal %s content: %w", s.Kind(), err)
	}
	return json.Marshal(wireSlide{
		ID:       s.ID,
		LessonID: s.LessonID,
		Type:     s.Kind(),
		Question: s.Question,
		Order:    s.Order,
		Content:  content,
	})
}

// UnmarshalJSON decodes and validates a slide. Invalid input yields a
// *Rejection.
func (s *Slide) UnmarshalJSON(data []byte) error {
	v, err := ValidateJSON(data)
	if err != nil {
		return err
	}
	var ids struct {
		ID       string `json:"id"`
		LessonID string `json:"lesson_id"`
	}
	_ = json.Unmarshal(data, &ids)
	v.ID = ids.ID
	v.LessonID = ids.LessonID
	*s = v
	return nil
}

// DecodeContent decodes a stored content payload for the given kind.
// The payload is trusted to have passed validation when it was written.
func DecodeContent(kind Kind, raw []byte) (Content, error) {
	var c Content
	switch kind {
	case KindMarkdown:
		var v Markdown
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		c = v
	case KindSingleChoice:
		var v SingleChoice
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		c = v
	case KindMultipleChoice:
		var v MultipleChoice
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		c = v
	case KindReflection:
		var v Reflection
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		c = v
	case KindReveal:
		var v Reveal
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		c = v
	default:
		return nil, fmt.Errorf("unknown slide type %q", kind)
	}
	return c, nil
}
