package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aeriel/clai/internal/studio"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Create, browse and approve courses",
}

var courseCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a course, optionally generating its lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		desc, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")
		count, _ := cmd.Flags().GetInt("lessons")

		env, err := openEnv(cmd, envOptions{needLLM: count > 0})
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		c, err := env.svc.CreateCourse(ctx, studio.CourseInput{Title: title, Description: desc, Category: category})
		if err != nil {
			return userError(err)
		}
		printCourse(out, c)
		if count == 0 {
			return nil
		}

		fmt.Fprintf(out, "\nGenerating %d lessons...\n", count)
		ls, err := env.svc.GenerateLessons(ctx, c.ID, count)
		if err != nil {
			return userError(err)
		}
		printLessons(out, ls)
		return nil
	},
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		cs, err := env.svc.ListCourses(cmd.Context())
		if err != nil {
			return userError(err)
		}
		printCourses(cmd.OutOrStdout(), cs)
		return nil
	},
}

var courseShowCmd = &cobra.Command{
	Use:   "show <course-id>",
	Short: "Show a course and its lessons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		c, err := env.svc.GetCourse(ctx, args[0])
		if err != nil {
			return userError(err)
		}
		ls, err := env.svc.ListLessons(ctx, c.ID)
		if err != nil {
			return userError(err)
		}
		printCourse(out, c)
		fmt.Fprintln(out)
		printLessons(out, ls)
		return nil
	},
}

var courseEditCmd = &cobra.Command{
	Use:   "edit <course-id>",
	Short: "Change a course's title, description or category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p studio.CoursePatch
		p.Title = stringFlag(cmd, "title")
		p.Description = stringFlag(cmd, "description")
		p.Category = stringFlag(cmd, "category")

		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		c, err := env.svc.UpdateCourse(cmd.Context(), args[0], p)
		if err != nil {
			return userError(err)
		}
		printCourse(cmd.OutOrStdout(), c)
		return nil
	},
}

var courseApproveCmd = &cobra.Command{
	Use:   "approve <course-id>",
	Short: "Mark a course as approved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		by, _ := cmd.Flags().GetString("by")

		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		c, err := env.svc.ApproveCourse(cmd.Context(), args[0], by)
		if err != nil {
			return userError(err)
		}
		printCourse(cmd.OutOrStdout(), c)
		return nil
	},
}

// stringFlag returns the flag value only when it was set on the command line.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// userError replaces a service error with its display text.
func userError(err error) error {
	return errors.New(studio.UserMessage(err))
}

func init() {
	courseCreateCmd.Flags().StringP("title", "t", "", "Course title (required)")
	courseCreateCmd.Flags().StringP("description", "d", "", "Course description")
	courseCreateCmd.Flags().StringP("category", "c", "", "Course category")
	courseCreateCmd.Flags().IntP("lessons", "n", 0, "Number of lessons to generate (0 to skip)")
	_ = courseCreateCmd.MarkFlagRequired("title")

	courseEditCmd.Flags().StringP("title", "t", "", "New title")
	courseEditCmd.Flags().StringP("description", "d", "", "New description")
	courseEditCmd.Flags().StringP("category", "c", "", "New category")

	courseApproveCmd.Flags().String("by", "", "Approver name (required)")
	_ = courseApproveCmd.MarkFlagRequired("by")

	courseCmd.AddCommand(courseCreateCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseShowCmd)
	courseCmd.AddCommand(courseEditCmd)
	courseCmd.AddCommand(courseApproveCmd)
}
