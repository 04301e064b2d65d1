package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/practiz/internal/mastery"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetString("course")
		limit, _ := cmd.Flags().GetInt("limit")
		detail, _ := cmd.Flags().GetBool("detail")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.SessionRepo().Recent(cmd.Context(), courseID, limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "No sessions yet.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-16s  %-8s  %9s  %6s\n", "Finished", "Course", "Mode", "Correct", "Score")
		fmt.Fprintln(out, strings.Repeat("─", 68))
		for _, r := range results {
			fmt.Fprintf(out, "%-19s  %-16s  %-8s  %9s  %5d%%\n",
				r.FinishedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.CourseID, 16),
				r.Mode,
				fmt.Sprintf("%d/%d", r.Correct, r.Questions),
				r.ScorePct)
			if !detail {
				continue
			}
			for _, st := range mastery.Rebuild(r.Attempts).Stats() {
				fmt.Fprintf(out, "    %-28s  %d/%d\n", truncate(st.ConceptID, 28), st.Correct, st.Total)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("course", "", "Only show sessions for this course")
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyCmd.Flags().BoolP("detail", "d", false, "Show per-concept results")
}
