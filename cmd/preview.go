package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/generate"
	"github.com/aeriel/clai/internal/llm"
	"github.com/aeriel/clai/internal/logger"
	"github.com/aeriel/clai/internal/playback"
	"github.com/aeriel/clai/internal/slide"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview LLM-generated slides for a topic (no database)",
	Long: `Generate slides for a lesson title and step through them in the shell.

This is a stateless developer tool: nothing is saved and no events are
logged. Useful for judging prompt quality and schema rejections.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("title", "", "Lesson title (required)")
	previewCmd.Flags().String("context", "", "Extra guidance for the generator")
	previewCmd.Flags().Int("count", 5, "Number of slides to generate")
	_ = previewCmd.MarkFlagRequired("title")
}

func runPreview(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	extra, _ := cmd.Flags().GetString("context")
	count, _ := cmd.Flags().GetInt("count")

	// No EventRepo, so requests are not recorded.
	ctx := cmd.Context()
	provider, _, err := llm.NewProviderFromEnv(ctx, nil, logger.Nop())
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	out := cmd.OutOrStdout()
	gen := generate.New(provider, generate.DefaultConfig(), nil)
	fmt.Fprintf(out, "Generating %d slides for %q...\n\n", count, title)

	sl, outcome := gen.GenerateSlides(ctx, generate.SlideRequest{Title: title, Count: count, Context: extra})
	for _, r := range outcome.Rejected {
		fmt.Fprintf(out, "rejected: %v\n", r)
	}
	if len(sl) == 0 {
		return fmt.Errorf("no slides generated (%s)", outcome.Reason)
	}
	sl = course.RenumberSlides(sl, 1)

	return previewLoop(out, bufio.NewScanner(cmd.InOrStdin()), playback.New(sl))
}

// previewLoop plays the slides on a line-based terminal. An empty line
// continues when the slide allows it.
func previewLoop(out io.Writer, in *bufio.Scanner, p *playback.Player) error {
	for !p.Finished() {
		cur, _ := p.Current()
		fmt.Fprintf(out, "── Slide %d/%d [%s] ──\n", p.Index()+1, p.Len(), cur.Kind())
		fmt.Fprintln(out, cur.Question)
		printPrompt(out, cur)

		for {
			fmt.Fprint(out, "> ")
			if !in.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				return nil
			}
			line := strings.TrimSpace(in.Text())
			if line == "" {
				if !p.CanAdvance() {
					fmt.Fprintln(out, "Answer first.")
					continue
				}
				if p.PrimaryAction() == playback.ActionFinish {
					p.Finish()
				} else {
					p.Advance()
				}
				fmt.Fprintln(out)
				break
			}
			a, ok := parsePreviewAnswer(cur.Content, line)
			if !ok {
				fmt.Fprintln(out, "Not understood.")
				continue
			}
			ev := p.RecordAnswer(a)
			printEvaluation(out, cur.Content, ev)
		}
	}
	fmt.Fprintln(out, "── Lesson complete ──")
	return nil
}

func printPrompt(out io.Writer, cur slide.Slide) {
	switch c := cur.Content.(type) {
	case slide.Markdown:
		fmt.Fprintln(out, c.Text)
	case slide.SingleChoice:
		for i, o := range c.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o)
		}
		fmt.Fprintln(out, "Pick one number.")
	case slide.MultipleChoice:
		for i, o := range c.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, o)
		}
		fmt.Fprintln(out, "Pick numbers separated by commas.")
	case slide.Reveal:
		fmt.Fprintln(out, "Type r to reveal.")
	case slide.Reflection:
		fmt.Fprintln(out, "Type a reflection, or press Enter to skip.")
	}
}

func parsePreviewAnswer(c slide.Content, line string) (slide.Answer, bool) {
	switch c := c.(type) {
	case slide.SingleChoice:
		i, err := strconv.Atoi(line)
		if err != nil || i < 1 || i > len(c.Options) {
			return slide.Answer{}, false
		}
		return slide.SelectOne(c.Options[i-1]), true
	case slide.MultipleChoice:
		var picked []string
		for _, part := range strings.Split(line, ",") {
			i, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || i < 1 || i > len(c.Options) {
				return slide.Answer{}, false
			}
			picked = append(picked, c.Options[i-1])
		}
		return slide.SelectMany(picked...), true
	case slide.Reveal:
		return slide.RevealAnswer(), strings.EqualFold(line, "r")
	case slide.Reflection:
		return slide.Reflect(line), true
	default:
		return slide.Answer{}, false
	}
}

func printEvaluation(out io.Writer, c slide.Content, ev slide.Evaluation) {
	switch ev.Verdict {
	case slide.VerdictCorrect:
		fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
	case slide.VerdictWrong:
		fmt.Fprintln(out, "\033[31m✗ Not quite.\033[0m")
	}
	if ev.Feedback != "" {
		fmt.Fprintln(out, ev.Feedback)
	}
	if r, ok := c.(slide.Reveal); ok && ev.CanAdvance {
		fmt.Fprintf(out, "Answer: %s\n", r.CorrectAnswer)
	}
	if ev.CanAdvance {
		fmt.Fprintln(out, "(Enter to continue)")
	}
}
