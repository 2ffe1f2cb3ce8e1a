// Package course defines courses and lessons, and the pure helpers used to
// reorder lessons and slides.
package course

import "time"

// Course is the top-level content container. It owns its lessons.
type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Approved    bool      `json:"approved"`
	Approver    string    `json:"approver,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lesson is an ordered unit within a course. Order values are distinct
// within one course.
type Lesson struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"lesson_order"`
	Approved    bool      `json:"approved"`
	Approver    string    `json:"approver,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LessonStub is a generated lesson outline before it is persisted.
type LessonStub struct {
	Title       string `json:"lesson_title"`
	Description string `json:"lesson_description"`
	Order       int    `json:"lesson_order"`
}

// Lesson converts the stub into an unsaved lesson of the given course.
func (s LessonStub) Lesson(courseID string) Lesson {
	return Lesson{
		CourseID:    courseID,
		Title:       s.Title,
		Description: s.Description,
		Order:       s.Order,
	}
}
