package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aeriel/clai/internal/course"
	"github.com/aeriel/clai/internal/studio"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Generate, reorder and edit lessons",
}

var lessonGenerateCmd = &cobra.Command{
	Use:   "generate <course-id>",
	Short: "Generate lessons for a course and append them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		env, err := openEnv(cmd, envOptions{needLLM: true})
		if err != nil {
			return err
		}
		defer env.Close()

		ls, err := env.svc.GenerateLessons(cmd.Context(), args[0], count)
		if err != nil {
			return userError(err)
		}
		printLessons(cmd.OutOrStdout(), ls)
		return nil
	},
}

var lessonListCmd = &cobra.Command{
	Use:   "list <course-id>",
	Short: "List a course's lessons in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		ls, err := env.svc.ListLessons(cmd.Context(), args[0])
		if err != nil {
			return userError(err)
		}
		printLessons(cmd.OutOrStdout(), ls)
		return nil
	},
}

var lessonMoveCmd = &cobra.Command{
	Use:   "move <course-id> <index> <up|down>",
	Short: "Swap a lesson with its neighbour",
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

		ls, moved, err := env.svc.MoveLesson(cmd.Context(), args[0], index, d)
		if err != nil {
			return userError(err)
		}
		out := cmd.OutOrStdout()
		if !moved {
			fmt.Fprintln(out, "Nothing to move.")
		}
		printLessons(out, ls)
		return nil
	},
}

var lessonEditCmd = &cobra.Command{
	Use:   "edit <lesson-id>",
	Short: "Change a lesson's title or description, or approve it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p studio.LessonPatch
		p.Title = stringFlag(cmd, "title")
		p.Description = stringFlag(cmd, "description")
		if by := stringFlag(cmd, "approve-by"); by != nil {
			approved := true
			p.Approved = &approved
			p.Approver = by
		}

		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		l, err := env.svc.UpdateLesson(cmd.Context(), args[0], p)
		if err != nil {
			return userError(err)
		}
		printLessons(cmd.OutOrStdout(), []course.Lesson{l})
		return nil
	},
}

// parseMove reads the index and direction arguments of the move commands.
func parseMove(index, direction string) (int, course.Direction, error) {
	i, err := strconv.Atoi(index)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid index %q: must be a whole number", index)
	}
	d, err := course.ParseDirection(direction)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid direction %q: must be up or down", direction)
	}
	return i, d, nil
}

func init() {
	lessonGenerateCmd.Flags().IntP("count", "n", 5, "Number of lessons to generate")

	lessonEditCmd.Flags().StringP("title", "t", "", "New title")
	lessonEditCmd.Flags().StringP("description", "d", "", "New description")
	lessonEditCmd.Flags().String("approve-by", "", "Approve the lesson as this reviewer")

	lessonCmd.AddCommand(lessonGenerateCmd)
	lessonCmd.AddCommand(lessonListCmd)
	lessonCmd.AddCommand(lessonMoveCmd)
	lessonCmd.AddCommand(lessonEditCmd)
}
