package studio

import (
	"errors"
	"fmt"

	"github.com/aeriel/clai/internal/slide"
	"github.com/aeriel/clai/internal/store"
)

var (
	// ErrBusy is returned when a generation for the same target is
	// already running in this process.
	ErrBusy = errors.New("generation already in progress")

	ErrCourseNotFound = fmt.Errorf("course %w", store.ErrNotFound)
	ErrLessonNotFound = fmt.Errorf("lesson %w", store.ErrNotFound)
	ErrSlideNotFound  = fmt.Errorf("slide %w", store.ErrNotFound)

	// ErrNoLessons and ErrNoSlides mean generation produced nothing usable.
	ErrNoLessons = errors.New("no lessons generated")
	ErrNoSlides  = errors.New("no slides generated")
)

// InputError reports a caller-supplied value that cannot be used.
type InputError struct {
	Field string
	Msg   string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, format string, args ...any) error {
	return &InputError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// OpError is a failed operation. Op reads as a verb phrase ("update
// lesson").
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *OpError) Unwrap() error { return e.Err }

func fail(op string, err error) error {
	return &OpError{Op: op, Err: err}
}

// notFound swaps a store not-found error for the entity sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, store.ErrNotFound) {
		return sentinel
	}
	return err
}

// UserMessage turns an error from this package into text fit for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		input *InputError
		rej   *slide.Rejection
		op    *OpError
	)
	switch {
	case errors.Is(err, ErrBusy):
		return "Generation is already in progress."
	case errors.Is(err, ErrCourseNotFound):
		return "Course not found."
	case errors.Is(err, ErrLessonNotFound):
		return "Lesson not found."
	case errors.Is(err, ErrSlideNotFound):
		return "Slide not found."
	case errors.Is(err, ErrNoLessons):
		return "Failed to generate lessons."
	case errors.Is(err, ErrNoSlides):
		return "Failed to generate slides."
	case errors.Is(err, store.ErrKindChanged):
		return "A slide's type cannot be changed."
	case errors.As(err, &input):
		return "Invalid " + input.Error() + "."
	case errors.As(err, &rej):
		return "Slide is invalid: " + rej.Reason + "."
	case errors.As(err, &op):
		return "Failed to " + op.Op + "."
	}
	return "Something went wrong."
}
