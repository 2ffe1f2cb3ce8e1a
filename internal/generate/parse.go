package generate

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoArray = errors.New("response holds no JSON array")

// extractArray decodes the model's text into its top-level array. It
// accepts a bare array, the same inside a ``` fence, and an object whose
// wrapKey (or only array-valued) field holds the array.
func extractArray(text, wrapKey string) ([]any, error) {
	body := stripFence(text)

	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		// Some models wrap the JSON in prose; fall back to the outermost brackets.
		start, end := strings.Index(body, "["), strings.LastIndex(body, "]")
		if start < 0 || end <= start {
			return nil, err
		}
		if err2 := json.Unmarshal([]byte(body[start:end+1]), &v); err2 != nil {
			return nil, err
		}
	}

	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		if arr, ok := t[wrapKey].([]any); ok {
			return arr, nil
		}
		var found []any
		n := 0
		for _, field := range t {
			if arr, ok := field.([]any); ok {
				found = arr
				n++
			}
		}
		if n == 1 {
			return found, nil
		}
	}
	return nil, errNoArray
}

func stripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Drop the opening fence line, including any language tag.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

type lessonWire struct {
	Title       string   `json:"lesson_title"`
	Description string   `json:"lesson_description"`
	Order       *float64 `json:"lesson_order"`
}

func decodeLesson(v any) (lessonWire, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return lessonWire{}, err
	}
	var w lessonWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return lessonWire{}, err
	}
	w.Title = strings.TrimSpace(w.Title)
	if w.Title == "" {
		return lessonWire{}, errors.New("lesson_title is missing")
	}
	return w, nil
}
