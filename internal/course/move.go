package course

import (
	"fmt"
	"strings"

	"github.com/aeriel/clai/internal/slide"
)

// Direction is a one-step reorder direction.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return 0, fmt.Errorf("invalid direction %q (want up or down)", s)
	}
}

// Move returns a copy of items with the element at index swapped with its
// neighbour in direction d. Moves past either end leave the order unchanged
// and report false.
func Move[T any](items []T, index int, d Direction) ([]T, bool) {
	out := append([]T(nil), items...)
	target := index + int(d)
	if (d != Up && d != Down) || index < 0 || index >= len(items) || target < 0 || target >= len(items) {
		return out, false
	}
	out[index], out[target] = out[target], out[index]
	return out, true
}

// MoveLesson swaps the lesson at index with its neighbour, exchanging their
// Order values. It returns the reordered list and the two lessons whose
// Order changed.
func MoveLesson(lessons []Lesson, index int, d Direction) ([]Lesson, []Lesson, bool) {
	out, ok := Move(lessons, index, d)
	if !ok {
		return out, nil, false
	}
	target := index + int(d)
	out[index].Order, out[target].Order = out[target].Order, out[index].Order
	return out, []Lesson{out[index], out[target]}, true
}

// MoveSlide moves the slide at index one step and renumbers every slide
// 1..N in the new sequence.
func MoveSlide(slides []slide.Slide, index int, d Direction) ([]slide.Slide, bool) {
	out, ok := Move(slides, index, d)
	if !ok {
		return out, false
	}
	return RenumberSlides(out, 1), true
}

// RenumberSlides assigns consecutive orders starting at base.
func RenumberSlides(slides []slide.Slide, base int) []slide.Slide {
	out := append([]slide.Slide(nil), slides...)
	for i := range out {
		out[i].Order = base + i
	}
	return out
}

// RenumberLessons assigns consecutive orders starting at base.
func RenumberLessons(lessons []Lesson, base int) []Lesson {
	out := append([]Lesson(nil), lessons...)
	for i := range out {
		out[i].Order = base + i
	}
	return out
}
