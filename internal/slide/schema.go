package slide

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func stringArrayProp(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

func slideDefinition(kind Kind, desc string, content map[string]any, required []any) map[string]any {
	return map[string]any{
		"type":        "object",
		"description": desc,
		"properties": map[string]any{
			"type":     map[string]any{"const": string(kind)},
			"question": stringProp("Title of the slide, phrased as a topic or a question"),
			"order":    map[string]any{"type": "number", "description": "Position of the slide in the lesson"},
			"content": map[string]any{
				"type":       "object",
				"properties": content,
				"required":   required,
			},
		},
		"required": []any{"type", "question", "order", "content"},
	}
}

// definitions holds the JSON Schema for each slide variant. Unknown extra
// properties are allowed everywhere.
var definitions = map[Kind]map[string]any{
	KindMarkdown: slideDefinition(KindMarkdown,
		"Teaches a concept or idea in markdown",
		map[string]any{
			"text": stringProp("Markdown explanation of the concept"),
		},
		[]any{"text"},
	),
	KindSingleChoice: slideDefinition(KindSingleChoice,
		"Question with two or more options, exactly one of which is correct",
		map[string]any{
			"options":                    stringArrayProp("Answer options"),
			"correct_answer":             stringProp("The correct option, copied verbatim from options"),
			"correct_answer_description": stringProp("Encouraging feedback for a correct answer"),
			"wrong_answer_description":   stringProp("Nudge toward the answer without giving it away"),
		},
		[]any{"options", "correct_answer", "correct_answer_description", "wrong_answer_description"},
	),
	KindMultipleChoice: slideDefinition(KindMultipleChoice,
		"Question with two or more options, one or more of which are correct",
		map[string]any{
			"options":                    stringArrayProp("Answer options"),
			"correct_answer":             stringArrayProp("Every correct option, copied verbatim from options"),
			"correct_answer_description": stringProp("Feedback for a correct selection"),
			"wrong_answer_description":   stringProp("Nudge toward the answer without giving it away"),
		},
		[]any{"options", "correct_answer", "correct_answer_description", "wrong_answer_description"},
	),
	KindReflection: slideDefinition(KindReflection,
		"Asks the learner to reflect on an experience or a scenario",
		map[string]any{
			"response_context": stringProp("Guidance for responding to the learner's reflection"),
		},
		[]any{"response_context"},
	),
	KindReveal: slideDefinition(KindReveal,
		"Asks a question and reveals the answer on request",
		map[string]any{
			"correct_answer": stringProp("The answer to reveal"),
		},
		[]any{"correct_answer"},
	),
}

// ArraySchema returns the JSON Schema for an array of slides, as the
// generation prompt describes it.
func ArraySchema() map[string]any {
	variants := make([]any, 0, len(definitions))
	for _, k := range Kinds() {
		variants = append(variants, definitions[k])
	}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "array",
		"items":   map[string]any{"oneOf": variants},
	}
}

var compiled sync.Map // map[Kind]*jsonschema.Schema

func compiledSchema(kind Kind) (*jsonschema.Schema, error) {
	if cached, ok := compiled.Load(kind); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, ok := definitions[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for slide type %q", kind)
	}

	// The compiler wants a plain decoded JSON value.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", kind, err)
	}
	var doc any
	if err := json.Unmarshal(defBytes, &doc); err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", kind, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://slide/%s.json", kind)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", kind, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", kind, err)
	}

	compiled.Store(kind, sch)
	return sch, nil
}
