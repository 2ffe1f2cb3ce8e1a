package slide

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Rejection describes why a candidate slide was refused.
type Rejection struct {
	// Index is the candidate's position in a generated batch, or -1.
	Index  int
	Type   string
	Reason string
}

func (r *Rejection) Error() string {
	if r.Index >= 0 {
		return fmt.Sprintf("slide %d (%s) rejected: %s", r.Index, r.typeLabel(), r.Reason)
	}
	return fmt.Sprintf("slide (%s) rejected: %s", r.typeLabel(), r.Reason)
}

func (r *Rejection) typeLabel() string {
	if r.Type == "" {
		return "untyped"
	}
	return r.Type
}

func reject(typ, format string, args ...any) *Rejection {
	return &Rejection{Index: -1, Type: typ, Reason: fmt.Sprintf(format, args...)}
}

// ValidateJSON validates a single JSON-encoded slide.
func ValidateJSON(data []byte) (Slide, error) {
	var candidate any
	if err := json.Unmarshal(data, &candidate); err != nil {
		return Slide{}, reject("", "invalid JSON: %v", err)
	}
	return Validate(candidate)
}

// Validate checks an untrusted candidate against the slide schema and
// returns the typed slide. The candidate is usually a decoded JSON object;
// any value that encodes to JSON is accepted. Failures are returned as
// *Rejection. Validate has no side effects.
func Validate(candidate any) (Slide, error) {
	obj, rej := normalize(candidate)
	if rej != nil {
		return Slide{}, rej
	}

	typ, _ := obj["type"].(string)
	kind, ok := ParseKind(typ)
	if !ok {
		if _, present := obj["type"]; !present {
			return Slide{}, reject("", "missing type")
		}
		return Slide{}, reject(typ, "unrecognized type")
	}

	if order, ok := obj["order"].(float64); ok {
		if math.IsNaN(order) || math.IsInf(order, 0) {
			return Slide{}, reject(typ, "order is not finite")
		}
		if order < math.MinInt32 || order > math.MaxInt32 {
			return Slide{}, reject(typ, "order %g is out of range", order)
		}
	}

	sch, err := compiledSchema(kind)
	if err != nil {
		return Slide{}, reject(typ, "%v", err)
	}
	if err := sch.Validate(obj); err != nil {
		return Slide{}, reject(typ, "schema: %v", err)
	}

	s, err := decode(kind, obj)
	if err != nil {
		return Slide{}, reject(typ, "%v", err)
	}
	if err := check(s); err != nil {
		return Slide{}, reject(typ, "%v", err)
	}
	return s, nil
}

// normalize round-trips the candidate through encoding/json so the schema
// sees plain maps, slices, strings and float64 numbers.
func normalize(candidate any) (map[string]any, *Rejection) {
	if candidate == nil {
		return nil, reject("", "candidate is null")
	}
	if f, ok := candidate.(map[string]any); ok {
		if order, ok := f["order"].(float64); ok && (math.IsNaN(order) || math.IsInf(order, 0)) {
			typ, _ := f["type"].(string)
			return nil, reject(typ, "order is not finite")
		}
	}
	raw, err := json.Marshal(candidate)
	if err != nil {
		return nil, reject("", "candidate is not encodable: %v", err)
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, reject("", "candidate is not an object")
	}
	return obj, nil
}

func decode(kind Kind, obj map[string]any) (Slide, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return Slide{}, err
	}
	var env struct {
		Question string          `json:"question"`
		Order    float64         `json:"order"`
		Content  json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Slide{}, err
	}
	content, err := DecodeContent(kind, env.Content)
	if err != nil {
		return Slide{}, err
	}
	return Slide{
		Question: env.Question,
		Order:    int(env.Order),
		Content:  content,
	}, nil
}

// check enforces the rules a JSON Schema cannot express.
func check(s Slide) error {
	if strings.TrimSpace(s.Question) == "" {
		return fmt.Errorf("question is empty")
	}

	switch c := s.Content.(type) {
	case Markdown, Reflection, Reveal:
		return nil
	case SingleChoice:
		if err := checkOptions(c.Options); err != nil {
			return err
		}
		if !contains(c.Options, c.CorrectAnswer) {
			return fmt.Errorf("correct_answer %q is not one of the options", c.CorrectAnswer)
		}
		return nil
	case MultipleChoice:
		if err := checkOptions(c.Options); err != nil {
			return err
		}
		if len(c.CorrectAnswer) == 0 {
			return fmt.Errorf("correct_answer is empty")
		}
		seen := make(map[string]bool, len(c.CorrectAnswer))
		for _, a := range c.CorrectAnswer {
			if !contains(c.Options, a) {
				return fmt.Errorf("correct_answer %q is not one of the options", a)
			}
			if seen[a] {
				return fmt.Errorf("correct_answer %q is listed twice", a)
			}
			seen[a] = true
		}
		return nil
	default:
		return fmt.Errorf("unsupported content %T", s.Content)
	}
}

func checkOptions(options []string) error {
	if len(options) < 2 {
		return fmt.Errorf("need at least 2 options, got %d", len(options))
	}
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if seen[o] {
			return fmt.Errorf("option %q is duplicated", o)
		}
		seen[o] = true
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Check validates an already-typed slide, e.g. after an edit.
func Check(s Slide) error {
	if s.Content == nil {
		return reject("", "content is missing")
	}
	if err := check(s); err != nil {
		return reject(string(s.Kind()), "%v", err)
	}
	return nil
}
