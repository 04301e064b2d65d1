package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Inspect courses and their topic mastery",
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses in the bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		courses, err := s.CourseRepo().ListCourses(cmd.Context())
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(courses) == 0 {
			fmt.Fprintln(out, "No courses found. Import one with `practiz bank import`.")
			return nil
		}

		fmt.Fprintf(out, "%-20s  %-32s  %9s  %6s\n", "ID", "Name", "Questions", "Topics")
		fmt.Fprintln(out, strings.Repeat("─", 73))
		for _, c := range courses {
			fmt.Fprintf(out, "%-20s  %-32s  %9d  %6d\n",
				truncate(c.ID, 20), truncate(c.Name, 32), c.Questions, c.Topics)
		}
		return nil
	},
}

var courseMasteryCmd = &cobra.Command{
	Use:   "mastery <course>",
	Short: "Show a course's topic mastery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if _, err := s.CourseRepo().Course(ctx, args[0]); err != nil {
			return fmt.Errorf("course %q: %w", args[0], err)
		}
		snap, err := s.CourseRepo().MasterySnapshot(ctx, args[0])
		if err != nil {
			return fmt.Errorf("load mastery: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(snap.MasteryTopics) == 0 {
			fmt.Fprintln(out, "No topic mastery recorded.")
			return nil
		}
		for _, t := range snap.MasteryTopics {
			fmt.Fprintf(out, "%-32s  %3d\n", truncate(t.Name, 32), t.Mastery)
		}
		return nil
	},
}

var courseMasterySetCmd = &cobra.Command{
	Use:   "set <course> <topic> <mastery>",
	Short: "Record a topic's mastery (0-100)",
	Long: `Record a topic's mastery (0-100).

Practice sessions only read mastery; use this to apply a gain shown in a
session summary, or to seed mastery kept by another system.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid mastery %q: %w", args[2], err)
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.CourseRepo().SetTopicMastery(cmd.Context(), args[0], args[1], value); err != nil {
			return fmt.Errorf("set mastery: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s / %s: %d\n", args[0], args[1], value)
		return nil
	},
}

func init() {
	courseMasteryCmd.AddCommand(courseMasterySetCmd)
	courseCmd.AddCommand(courseListCmd)
	courseCmd.AddCommand(courseMasteryCmd)
}
