// Package generate turns course and lesson descriptions into lesson
// outlines and slides using an LLM. Generation is fail-soft: provider or
// parse failures yield an empty result with a diagnostic Outcome.
package generate

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/llm"
	"github.com/aeriel/clai/internal/logger"
	"github.com/aeriel/clai/internal/slide"
)

// Purposes tag each call in the LLM request log.
const (
	PurposeLessons    = "lesson-gen"
	PurposeSlides     = "slide-gen"
	PurposeReflection = "reflection"
	PurposeClarify    = "clarify"
)

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}

// Reason says why a generation produced what it did.
type Reason int

const (
	ReasonOK Reason = iota
	// ReasonEmpty means the response parsed but nothing usable was in it.
	ReasonEmpty
	ReasonParseFailure
	ReasonProviderError
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonEmpty:
		return "empty"
	case ReasonParseFailure:
		return "parse failure"
	case ReasonProviderError:
		return "provider error"
	default:
		return "unknown"
	}
}

// Outcome is the diagnostic side of a generation call.
type Outcome struct {
	Reason Reason

	// Raw is the model's text, when a response arrived.
	Raw string

	// Err is the provider or parse error behind a failure reason.
	Err error

	// Rejected lists slides dropped by validation, indexed by their
	// position in the model's array.
	Rejected []*slide.Rejection
}

// LessonRequest describes a course to outline.
type LessonRequest struct {
	Title       string
	Description string
	Count       int
}

// SlideRequest describes a lesson to fill with slides.
type SlideRequest struct {
	Title       string
	Description string
	Count       int
	Context     string
}

// Generator produces lesson outlines and slides.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
}

// New creates a Generator. A nil logger discards output.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Generator{provider: provider, cfg: cfg, log: log}
}

func (g *Generator) request(system, prompt string) llm.Request {
	req := llm.UserPrompt(system, prompt, g.cfg.MaxTokens)
	req.Temperature = g.cfg.Temperature
	return req
}

// jsonRequest is request with the provider's JSON mode switched on.
func (g *Generator) jsonRequest(system, prompt string) llm.Request {
	req := g.request(system, prompt)
	req.JSON = true
	return req
}

// complete runs one call. A truncated response still returns its text so
// the caller can attempt a parse.
func (g *Generator) complete(ctx context.Context, purpose string, req llm.Request) (string, error) {
	text, err := llm.Complete(llm.WithPurpose(ctx, purpose), g.provider, req)
	var maxErr *llm.ErrMaxTokensExceeded
	if errors.As(err, &maxErr) {
		g.log.Warn("generation truncated", "purpose", purpose, "max_tokens", req.MaxTokens)
		return text, nil
	}
	return text, err
}

// GenerateLessons asks the model for at most req.Count lesson outlines.
// Orders are the model's when they are present and distinct, otherwise
// every stub is renumbered by position from 0.
func (g *Generator) GenerateLessons(ctx context.Context, req LessonRequest) ([]course.LessonStub, Outcome) {
	text, err := g.complete(ctx, PurposeLessons, g.jsonRequest(lessonSystemPrompt, buildLessonUserMessage(req)))
	if err != nil {
		g.log.Error("lesson generation failed", "title", req.Title, "error", err)
		return nil, Outcome{Reason: ReasonProviderError, Err: err}
	}
	out := Outcome{Raw: text}

	items, err := extractArray(text, "lessons")
	if err != nil {
		g.log.Warn("lesson response unparsable", "title", req.Title, "error", err)
		out.Reason, out.Err = ReasonParseFailure, err
		return nil, out
	}

	stubs := make([]course.LessonStub, 0, len(items))
	seen := make(map[int]bool, len(items))
	renumber := false
	for i, item := range items {
		if req.Count > 0 && len(stubs) == req.Count {
			break
		}
		w, err := decodeLesson(item)
		if err != nil {
			g.log.Warn("lesson rejected", "index", i, "reason", err)
			continue
		}
		stub := course.LessonStub{Title: w.Title, Description: w.Description}
		if !validOrder(w.Order) || seen[int(*w.Order)] {
			renumber = true
		} else {
			stub.Order = int(*w.Order)
			seen[stub.Order] = true
		}
		stubs = append(stubs, stub)
	}
	if renumber {
		for i := range stubs {
			stubs[i].Order = i
		}
	}

	if len(stubs) == 0 {
		out.Reason = ReasonEmpty
		return nil, out
	}
	g.log.Info("lessons generated", "title", req.Title, "count", len(stubs))
	return stubs, out
}

// GenerateSlides asks the model for slides and keeps those that pass
// validation, at most req.Count of them. Rejected elements are logged and
// reported in the Outcome.
func (g *Generator) GenerateSlides(ctx context.Context, req SlideRequest) ([]slide.Slide, Outcome) {
	text, err := g.complete(ctx, PurposeSlides, g.jsonRequest(slideSystemPrompt, buildSlideUserMessage(req)))
	if err != nil {
		g.log.Error("slide generation failed", "title", req.Title, "error", err)
		return nil, Outcome{Reason: ReasonProviderError, Err: err}
	}
	out := Outcome{Raw: text}

	items, err := extractArray(text, "slides")
	if err != nil {
		g.log.Warn("slide response unparsable", "title", req.Title, "error", err)
		out.Reason, out.Err = ReasonParseFailure, err
		return nil, out
	}

	slides := make([]slide.Slide, 0, len(items))
	for i, item := range items {
		if req.Count > 0 && len(slides) == req.Count {
			break
		}
		s, err := slide.Validate(item)
		if err != nil {
			rej := &slide.Rejection{Index: i, Reason: err.Error()}
			var r *slide.Rejection
			if errors.As(err, &r) {
				rej.Type, rej.Reason = r.Type, r.Reason
			}
			out.Rejected = append(out.Rejected, rej)
			g.log.Warn("slide rejected", "index", i, "type", rej.Type, "reason", rej.Reason)
			continue
		}
		slides = append(slides, s)
	}

	if len(slides) == 0 {
		out.Reason = ReasonEmpty
		return nil, out
	}
	g.log.Info("slides generated", "title", req.Title, "accepted", len(slides), "rejected", len(out.Rejected))
	return slides, out
}

// ReflectionFeedback returns a short, empathetic response to a learner's
// reflection on prompt.
func (g *Generator) ReflectionFeedback(ctx context.Context, prompt, reflection string) (string, error) {
	text, err := g.complete(ctx, PurposeReflection, g.request(reflectionSystemPrompt, buildReflectionUserMessage(prompt, reflection)))
	if err != nil {
		return "", fmt.Errorf("reflection feedback: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("reflection feedback: empty response")
	}
	return text, nil
}

// Clarify returns one question that narrows down what the user wants to
// learn about topic.
func (g *Generator) Clarify(ctx context.Context, topic string) (string, error) {
	text, err := g.complete(ctx, PurposeClarify, g.request(clarifySystemPrompt, topic))
	if err != nil {
		return "", fmt.Errorf("clarify: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("clarify: empty response")
	}
	return text, nil
}

// validOrder reports whether a model supplied order is a whole number that
// fits an int.
func validOrder(o *float64) bool {
	return o != nil && *o == math.Trunc(*o) && *o >= math.MinInt32 && *o <= math.MaxInt32
}
