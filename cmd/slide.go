package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aeriel/clai/internal/slide"
)

var slideCmd = &cobra.Command{
	Use:   "slide",
	Short: "Generate, reorder and edit slides",
}

var slideGenerateCmd = &cobra.Command{
	Use:   "generate <lesson-id>",
	Short: "Generate slides for a lesson and append them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		extra, _ := cmd.Flags().GetString("context")

		env, err := openEnv(cmd, envOptions{needLLM: true})
		if err != nil {
			return err
		}
		defer env.Close()

		sl, err := env.svc.GenerateSlides(cmd.Context(), args[0], count, extra)
		if err != nil {
			return userError(err)
		}
		printSlides(cmd.OutOrStdout(), sl)
		return nil
	},
}

var slideListCmd = &cobra.Command{
	Use:   "list <lesson-id>",
	Short: "List a lesson's slides in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		sl, err := env.svc.ListSlides(cmd.Context(), args[0])
		if err != nil {
			return userError(err)
		}
		out := cmd.OutOrStdout()
		if asJSON {
			if sl == nil {
				sl = []slide.Slide{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sl)
		}
		printSlides(out, sl)
		return nil
	},
}

var slideMoveCmd = &cobra.Command{
	Use:   "move <lesson-id> <index> <up|down>",
	Short: "Swap a slide with its neighbour",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, d, err := parseMove(args[1], args[2])
		if err != nil {
			return err
		}

		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		sl, moved, err := env.svc.MoveSlide(cmd.Context(), args[0], index, d)
		if err != nil {
			return userError(err)
		}
		out := cmd.OutOrStdout()
		if !moved {
			fmt.Fprintln(out, "Nothing to move.")
		}
		printSlides(out, sl)
		return nil
	},
}

var slideEditCmd = &cobra.Command{
	Use:   "edit <lesson-id> <index>",
	Short: "Edit the question and content fields of a slide",
	Long: `Edit one slide, addressed by its zero-based position in the lesson.

Scalar fields are replaced with --set, list items with --item, --add and
--remove. With no edit flags the slide's fields are printed.

  clai slide edit <lesson> 2 --set correct_answer=Pads
  clai slide edit <lesson> 2 --item options:1=Rotor --add options=Caliper
  clai slide edit <lesson> 2 --remove options:0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: must be a whole number", args[1])
		}

		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		sl, err := env.svc.ListSlides(ctx, args[0])
		if err != nil {
			return userError(err)
		}
		if index < 0 || index >= len(sl) {
			return fmt.Errorf("slide %d out of range: lesson has %d slides", index, len(sl))
		}

		edited, changed, err := applySlideEdits(cmd, sl[index])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !changed {
			printSlideContent(out, sl[index])
			return nil
		}
		saved, err := env.svc.EditSlide(ctx, edited)
		if err != nil {
			return userError(err)
		}
		printSlideContent(out, saved)
		return nil
	},
}

var slideSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema generated slides must satisfy",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(slide.ArraySchema())
	},
}

// applySlideEdits applies the edit flags to s in the order --set, --item,
// --remove, --add. It reports whether anything was requested.
func applySlideEdits(cmd *cobra.Command, s slide.Slide) (slide.Slide, bool, error) {
	sets, _ := cmd.Flags().GetStringArray("set")
	items, _ := cmd.Flags().GetStringArray("item")
	removes, _ := cmd.Flags().GetStringArray("remove")
	adds, _ := cmd.Flags().GetStringArray("add")
	question := stringFlag(cmd, "question")

	changed := question != nil || len(sets)+len(items)+len(removes)+len(adds) > 0
	if question != nil {
		s.Question = *question
	}

	c := s.Content
	var ok bool
	for _, kv := range sets {
		field, value, found := strings.Cut(kv, "=")
		if !found {
			return s, false, fmt.Errorf("invalid --set %q: want field=value", kv)
		}
		if c, ok = slide.SetScalar(c, field, value); !ok {
			return s, false, fmt.Errorf("%s has no text field %q", s.Kind(), field)
		}
	}
	for _, kv := range items {
		ref, value, found := strings.Cut(kv, "=")
		if !found {
			return s, false, fmt.Errorf("invalid --item %q: want field:index=value", kv)
		}
		field, i, err := parseItemRef(ref)
		if err != nil {
			return s, false, err
		}
		if c, ok = slide.SetListItem(c, field, i, value); !ok {
			return s, false, fmt.Errorf("no item %d in list %q", i, field)
		}
	}
	for _, ref := range removes {
		field, i, err := parseItemRef(ref)
		if err != nil {
			return s, false, err
		}
		if c, ok = slide.RemoveListItem(c, field, i); !ok {
			return s, false, fmt.Errorf("no item %d in list %q", i, field)
		}
	}
	for _, kv := range adds {
		field, value, found := strings.Cut(kv, "=")
		if !found {
			return s, false, fmt.Errorf("invalid --add %q: want field=value", kv)
		}
		if c, ok = slide.AddListItem(c, field, value); !ok {
			return s, false, fmt.Errorf("%s has no list field %q", s.Kind(), field)
		}
	}
	s.Content = c
	return s, changed, nil
}

// parseItemRef splits "options:2" into its field and index.
func parseItemRef(ref string) (string, int, error) {
	field, idx, found := strings.Cut(ref, ":")
	if !found {
		return "", 0, fmt.Errorf("invalid item %q: want field:index", ref)
	}
	i, err := strconv.Atoi(idx)
	if err != nil {
		return "", 0, fmt.Errorf("invalid item index %q", idx)
	}
	return field, i, nil
}

func init() {
	slideGenerateCmd.Flags().IntP("count", "n", 8, "Number of slides to generate")
	slideGenerateCmd.Flags().String("context", "", "Extra guidance for the generator, e.g. the audience")

	slideListCmd.Flags().Bool("json", false, "Print slides as JSON")

	slideEditCmd.Flags().StringP("question", "q", "", "New question or title")
	slideEditCmd.Flags().StringArray("set", nil, "Replace a text field: field=value")
	slideEditCmd.Flags().StringArray("item", nil, "Replace a list item: field:index=value")
	slideEditCmd.Flags().StringArray("add", nil, "Append a list item: field=value")
	slideEditCmd.Flags().StringArray("remove", nil, "Remove a list item: field:index")

	slideCmd.AddCommand(slideGenerateCmd)
	slideCmd.AddCommand(slideListCmd)
	slideCmd.AddCommand(slideMoveCmd)
	slideCmd.AddCommand(slideEditCmd)
	slideCmd.AddCommand(slideSchemaCmd)
}
