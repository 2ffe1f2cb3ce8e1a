package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/slide"
)

const rule = "\u2500"

func approvedMark(ok bool) string {
	if ok {
		return "✓"
	}
	return " "
}

func printCourses(w io.Writer, cs []course.Course) {
	if len(cs) == 0 {
		fmt.Fprintln(w, "No courses found.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-32s  %-14s  %s\n", "ID", "Title", "Category", "OK")
	fmt.Fprintln(w, strings.Repeat(rule, 90))
	for _, c := range cs {
		fmt.Fprintf(w, "%-36s  %-32s  %-14s  %s\n",
			c.ID, truncate(c.Title, 32), truncate(c.Category, 14), approvedMark(c.Approved))
	}
}

func printCourse(w io.Writer, c course.Course) {
	fmt.Fprintf(w, "ID:          %s\n", c.ID)
	fmt.Fprintf(w, "Title:       %s\n", c.Title)
	if c.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", c.Description)
	}
	if c.Category != "" {
		fmt.Fprintf(w, "Category:    %s\n", c.Category)
	}
	if c.Approved {
		fmt.Fprintf(w, "Approved by: %s\n", c.Approver)
	}
	fmt.Fprintf(w, "Created:     %s\n", c.CreatedAt.Local().Format("2006-01-02 15:04:05"))
}

func printLessons(w io.Writer, ls []course.Lesson) {
	if len(ls) == 0 {
		fmt.Fprintln(w, "No lessons found.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-36s  %-40s  %s\n", "Order", "ID", "Title", "OK")
	fmt.Fprintln(w, strings.Repeat(rule, 90))
	for _, l := range ls {
		fmt.Fprintf(w, "%-5d  %-36s  %-40s  %s\n",
			l.Order, l.ID, truncate(l.Title, 40), approvedMark(l.Approved))
	}
}

func printSlides(w io.Writer, sl []slide.Slide) {
	if len(sl) == 0 {
		fmt.Fprintln(w, "No slides found.")
		return
	}
	fmt.Fprintf(w, "%-5s  %-36s  %-16s  %s\n", "Order", "ID", "Type", "Question")
	fmt.Fprintln(w, strings.Repeat(rule, 100))
	for _, s := range sl {
		fmt.Fprintf(w, "%-5d  %-36s  %-16s  %s\n", s.Order, s.ID, s.Kind(), truncate(s.Question, 36))
	}
}

// printSlideContent lists each editable field with its current value.
func printSlideContent(w io.Writer, s slide.Slide) {
	fmt.Fprintf(w, "%s  [%s]\n", s.Question, s.Kind())
	for _, f := range slide.Fields(s.Content) {
		if f.List {
			items, _ := slide.List(s.Content, f.Name)
			fmt.Fprintf(w, "  %s:\n", f.Name)
			for i, item := range items {
				fmt.Fprintf(w, "    [%d] %s\n", i, item)
			}
			continue
		}
		v, _ := slide.Scalar(s.Content, f.Name)
		fmt.Fprintf(w, "  %s: %s\n", f.Name, v)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
