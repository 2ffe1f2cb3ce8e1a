package slide

import (
	"encoding/json"
	"fmt"
)

// Field is one editable field of a slide's content.
type Field struct {
	Name string
	List bool
}

var fieldSets = map[Kind][]Field{
	KindMarkdown: {
		{Name: "text"},
	},
	KindSingleChoice: {
		{Name: "options", List: true},
		{Name: "correct_answer"},
		{Name: "correct_answer_description"},
		{Name: "wrong_answer_description"},
	},
	KindMultipleChoice: {
		{Name: "options", List: true},
		{Name: "correct_answer", List: true},
		{Name: "correct_answer_description"},
		{Name: "wrong_answer_description"},
	},
	KindReflection: {
		{Name: "response_context"},
	},
	KindReveal: {
		{Name: "correct_answer"},
	},
}

// Fields lists the editable fields of c in display order.
func Fields(c Content) []Field {
	if c == nil {
		return nil
	}
	return append([]Field(nil), fieldSets[c.Kind()]...)
}

func lookupField(c Content, name string) (Field, bool) {
	for _, f := range Fields(c) {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Scalar returns the text value of a scalar field.
func Scalar(c Content, name string) (string, bool) {
	f, ok := lookupField(c, name)
	if !ok || f.List {
		return "", false
	}
	m, err := toMap(c)
	if err != nil {
		return "", false
	}
	v, _ := m[name].(string)
	return v, true
}

// List returns a copy of the items of a list field.
func List(c Content, name string) ([]string, bool) {
	f, ok := lookupField(c, name)
	if !ok || !f.List {
		return nil, false
	}
	m, err := toMap(c)
	if err != nil {
		return nil, false
	}
	return listOf(m[name]), true
}

// SetScalar returns c with the named scalar field set to value. It returns
// c unchanged and false if the field does not exist or is a list.
func SetScalar(c Content, name, value string) (Content, bool) {
	f, ok := lookupField(c, name)
	if !ok || f.List {
		return c, false
	}
	return rewrite(c, func(m map[string]any) bool {
		m[name] = value
		return true
	})
}

// SetListItem replaces item i of a list field.
func SetListItem(c Content, name string, i int, value string) (Content, bool) {
	return editList(c, name, func(items []string) ([]string, bool) {
		if i < 0 || i >= len(items) {
			return items, false
		}
		items[i] = value
		return items, true
	})
}

// AddListItem appends value to a list field.
func AddListItem(c Content, name, value string) (Content, bool) {
	return editList(c, name, func(items []string) ([]string, bool) {
		return append(items, value), true
	})
}

// RemoveListItem removes item i of a list field. The remaining items keep
// their relative order.
func RemoveListItem(c Content, name string, i int) (Content, bool) {
	return editList(c, name, func(items []string) ([]string, bool) {
		if i < 0 || i >= len(items) {
			return items, false
		}
		return append(items[:i], items[i+1:]...), true
	})
}

func editList(c Content, name string, fn func([]string) ([]string, bool)) (Content, bool) {
	f, ok := lookupField(c, name)
	if !ok || !f.List {
		return c, false
	}
	return rewrite(c, func(m map[string]any) bool {
		items, ok := fn(listOf(m[name]))
		if !ok {
			return false
		}
		m[name] = items
		return true
	})
}

func rewrite(c Content, fn func(map[string]any) bool) (Content, bool) {
	m, err := toMap(c)
	if err != nil {
		return c, false
	}
	if !fn(m) {
		return c, false
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return c, false
	}
	out, err := DecodeContent(c.Kind(), raw)
	if err != nil {
		return c, false
	}
	return out, true
}

func toMap(c Content) (map[string]any, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal %s content: %w", c.Kind(), err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func listOf(v any) []string {
	raw, _ := v.([]any)
	items := make([]string, 0, len(raw))
	for _, x := range raw {
		s, _ := x.(string)
		items = append(items, s)
	}
	return items
}
