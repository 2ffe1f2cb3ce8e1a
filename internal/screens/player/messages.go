package player

import "github.com/aeriel/clai/internal/studio"

// lessonLoadedMsg is sent when the lesson and its slides have been read.
type lessonLoadedMsg struct {
	View studio.LessonView
	Err  error
}

// reflectionFeedbackMsg carries generated feedback for the reflection
// submitted on slide Index.
type reflectionFeedbackMsg struct {
	Index    int
	Response string
	Text     string
	Err      error
}
