package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/practiz/internal/bankgen"
	"github.com/abhisek/practiz/internal/llm"
	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/quiz"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage the question bank",
}

var bankImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a course question bank from JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open bank: %w", err)
		}
		defer f.Close()

		bank, err := quiz.DecodeBank(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if err := s.CourseRepo().SaveCourse(ctx, bank.Course); err != nil {
			return fmt.Errorf("save course: %w", err)
		}
		if len(bank.Questions) > 0 {
			if err := s.QuestionRepo().Save(ctx, bank.Questions...); err != nil {
				return fmt.Errorf("save questions: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions into %s (%s)\n",
			len(bank.Questions), bank.Course.Name, bank.Course.ID)
		return nil
	},
}

var bankExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a course question bank as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetString("course")
		outPath, _ := cmd.Flags().GetString("out")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		course, err := s.CourseRepo().Course(ctx, courseID)
		if err != nil {
			return fmt.Errorf("course %q: %w", courseID, err)
		}
		questions, err := s.QuestionRepo().ByCourseAndConcepts(ctx, courseID, nil)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}

		var w io.Writer = cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		}
		return quiz.EncodeBank(w, &quiz.Bank{Course: *course, Questions: questions})
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a course's concepts with question counts and mastery",
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetString("course")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if _, err := s.CourseRepo().Course(ctx, courseID); err != nil {
			return fmt.Errorf("course %q: %w", courseID, err)
		}
		concepts, err := s.QuestionRepo().Concepts(ctx, courseID)
		if err != nil {
			return fmt.Errorf("list concepts: %w", err)
		}
		snap, err := s.CourseRepo().MasterySnapshot(ctx, courseID)
		if err != nil {
			return fmt.Errorf("load mastery: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(concepts) == 0 {
			fmt.Fprintln(out, "No questions in this course yet.")
			return nil
		}

		fmt.Fprintf(out, "%-30s  %-30s  %9s  %7s\n", "Concept", "Topic", "Questions", "Mastery")
		fmt.Fprintln(out, strings.Repeat("─", 82))
		total := 0
		for _, c := range concepts {
			topic, m := snap.MasteryFor(c.ConceptID)
			if topic == "" {
				topic = "-"
			}
			fmt.Fprintf(out, "%-30s  %-30s  %9d  %7d\n",
				truncate(c.ConceptID, 30), truncate(topic, 30), c.Questions, m)
			total += c.Questions
		}
		fmt.Fprintf(out, "\n%d questions in %d concepts\n", total, len(concepts))
		return nil
	},
}

var bankExpandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Generate new questions for a course topic with the configured LLM",
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetString("course")
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")

		topic = strings.TrimSpace(topic)
		if topic == "" {
			return errors.New("--topic must not be blank")
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		course, err := s.CourseRepo().Course(ctx, courseID)
		if err != nil {
			return fmt.Errorf("course %q: %w", courseID, err)
		}

		provider, err := llm.NewProviderFromEnv(ctx, s.EventRepo(), nil)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		conceptID := mastery.Slugify(topic)
		existing, err := s.QuestionRepo().Prompts(ctx, courseID, conceptID)
		if err != nil {
			return fmt.Errorf("load existing prompts: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Generating questions for %s / %s...\n", course.Name, topic)

		gen := bankgen.New(provider, bankgen.DefaultConfig(), nil)
		res, err := gen.Expand(ctx, bankgen.Request{
			Course:          *course,
			TopicName:       topic,
			ConceptID:       conceptID,
			Count:           count,
			ExistingPrompts: existing,
		})
		if err != nil {
			return fmt.Errorf("expand bank: %w", err)
		}

		for _, rerr := range res.Rejected {
			fmt.Fprintf(out, "  rejected: %v\n", rerr)
		}
		if len(res.Questions) == 0 {
			fmt.Fprintln(out, "No new questions were generated.")
			return nil
		}
		if err := s.QuestionRepo().Save(ctx, res.Questions...); err != nil {
			return fmt.Errorf("save questions: %w", err)
		}
		for _, q := range res.Questions {
			fmt.Fprintf(out, "  + [%s] %s\n", q.Type, q.Prompt)
		}
		fmt.Fprintf(out, "Added %d questions to %s.\n", len(res.Questions), conceptID)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{bankExportCmd, bankListCmd, bankExpandCmd} {
		c.Flags().String("course", "", "Course ID (required)")
		_ = c.MarkFlagRequired("course")
	}
	bankExportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	bankExpandCmd.Flags().String("topic", "", "Topic name to generate questions for (required)")
	bankExpandCmd.Flags().Int("count", bankgen.DefaultConfig().DefaultCount, "Number of questions to ask for")
	_ = bankExpandCmd.MarkFlagRequired("topic")

	bankCmd.AddCommand(bankImportCmd)
	bankCmd.AddCommand(bankExportCmd)
	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankExpandCmd)
}
