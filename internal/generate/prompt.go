package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aeriel/clai/internal/slide"
)

const lessonSystemPrompt = `You are helping generate a course outline. Return a JSON array of lessons. Each item should have: lesson_title, lesson_description, and lesson_order. Don't title things "lesson 1", "lesson 2", etc. Instead, use descriptive titles. lesson_order should start with 0, and increment by 1. Return only the JSON array. If a JSON object is required, put the array under "lessons".`

func buildLessonUserMessage(req LessonRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course title: %s\n", req.Title)
	fmt.Fprintf(&b, "Description: %s\n", req.Description)
	fmt.Fprintf(&b, "Lessons: %d\n", req.Count)
	return b.String()
}

const slideFormats = `
1. markdown: teaches a concept or idea.
   {"type": "markdown", "question": "What is Markdown?", "order": 1,
    "content": {"text": "Markdown is a lightweight markup language for creating formatted text using a plain-text editor."}}

2. single_choice: a question with two or more options, exactly one of them correct.
   {"type": "single_choice", "question": "What is the capital of France?", "order": 2,
    "content": {"options": ["Paris", "London", "Berlin"], "correct_answer": "Paris",
                "correct_answer_description": "Correct! Paris is the capital of France.",
                "wrong_answer_description": "Incorrect. The correct answer is Paris."}}

3. multiple_choice: a question with two or more options, one or more of them correct.
   {"type": "multiple_choice", "question": "Which of the following are fruits?", "order": 3,
    "content": {"options": ["Apple", "Carrot", "Banana"], "correct_answer": ["Apple", "Banana"],
                "correct_answer_description": "Correct! Apples and bananas are fruits.",
                "wrong_answer_description": "Incorrect. Carrots are vegetables."}}

4. reflection: asks the learner to reflect on their own experience, or presents a scenario and asks what they would do.
   {"type": "reflection", "question": "What are your thoughts on climate change?", "order": 4,
    "content": {"response_context": "Provide a thoughtful response about the importance of addressing climate change."}}

5. reveal: a question shown to the learner whose answer is then revealed.
   {"type": "reveal", "question": "What is the largest planet in our solar system?", "order": 5,
    "content": {"correct_answer": "Jupiter"}}
`

// slideSystemPrompt is built once; the schema is static.
var slideSystemPrompt = buildSlideSystemPrompt()

func buildSlideSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are generating slide content for a dynamic, AI-assisted learning module. ")
	b.WriteString("Return a JSON array of slides. Each slide must match one of the following types:\n")
	b.WriteString(slideFormats)
	b.WriteString(`
Make sure every other slide is a markdown slide. The information on a markdown slide should help with the exercise on the slide that follows it.
Every correct_answer must be copied exactly from options. Options must not repeat.
`)
	if schema, err := json.MarshalIndent(slide.ArraySchema(), "", "  "); err == nil {
		b.WriteString("\nThe array must validate against this JSON Schema:\n")
		b.Write(schema)
		b.WriteString("\n")
	}
	b.WriteString("\nReturn only valid JSON. If a JSON object is required, put the array under \"slides\".")
	return b.String()
}

func buildSlideUserMessage(req SlideRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d slides for a lesson titled %q.\n", req.Count, req.Title)
	fmt.Fprintf(&b, "Description of the lesson: %s\n", req.Description)
	if ctx := strings.TrimSpace(req.Context); ctx != "" {
		fmt.Fprintf(&b, "Additional context to consider: %s\n", ctx)
	}
	b.WriteString("The slides should be in the format specified above.")
	return b.String()
}

const reflectionSystemPrompt = `You are a kind and empathetic coach. Give thoughtful feedback on the learner's reflection based on the original prompt. Keep the response to 1-2 sentences. If it is not a reflective question, be less emotional. Never ask the learner a question. If they did not answer the reflective question, say "I see you didn't answer the reflective question. I hope you can reflect on future reflection questions."`

func buildReflectionUserMessage(prompt, reflection string) string {
	return fmt.Sprintf("Prompt: %s\n\nReflection: %s", prompt, reflection)
}

const clarifySystemPrompt = `Ask one short clarification question to better understand what the user wants to learn about this topic.`
