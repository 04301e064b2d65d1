package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/practiz/internal/bankgen"
	"github.com/abhisek/practiz/internal/grading"
	"github.com/abhisek/practiz/internal/llm"
	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/quiz"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview LLM-generated questions for a topic (no database)",
	Long: `Generate and interactively answer questions for a topic.

This is a stateless developer tool: no database, no history and no events.
Useful for evaluating question quality before expanding a bank.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("course", "Preview", "Course name given to the model")
	previewCmd.Flags().String("topic", "", "Topic to generate questions for (required)")
	previewCmd.Flags().Int("count", 3, "Number of questions to generate")
	_ = previewCmd.MarkFlagRequired("topic")
}

func runPreview(cmd *cobra.Command, args []string) error {
	courseName, _ := cmd.Flags().GetString("course")
	topic, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("count")

	ctx := llm.WithPurpose(cmd.Context(), llm.PurposePreview)
	provider, err := llm.NewProviderFromEnv(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Topic: %s — %s\n", courseName, topic)
	fmt.Fprintf(out, "Generating %d questions...\n\n", count)

	gen := bankgen.New(provider, bankgen.DefaultConfig(), nil)
	res, err := gen.Expand(ctx, bankgen.Request{
		Course:    quiz.Course{ID: mastery.Slugify(courseName), Name: courseName},
		TopicName: topic,
		Count:     count,
	})
	if err != nil {
		return fmt.Errorf("generate questions: %w", err)
	}
	for _, rerr := range res.Rejected {
		fmt.Fprintf(out, "(rejected: %v)\n", rerr)
	}

	correct := answerInteractively(cmd.InOrStdin(), out, res.Questions, grading.NewEngine(nil))
	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", correct, len(res.Questions))
	return nil
}

// answerInteractively asks each question on in and grades the replies.
// Multiple-choice answers are given by number.
func answerInteractively(in io.Reader, out io.Writer, questions []quiz.Question, engine *grading.Engine) int {
	scanner := bufio.NewScanner(in)
	correct := 0

	for i, q := range questions {
		fmt.Fprintf(out, "── Question %d/%d ──\n", i+1, len(questions))
		fmt.Fprintln(out, q.Prompt)
		for j, c := range q.Choices {
			fmt.Fprintf(out, "  %d) %s\n", j+1, c.Text)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Fprint(out, "(skipped)\n\n")
			continue
		}

		var ok bool
		if q.IsMultipleChoice() {
			n, err := strconv.Atoi(answer)
			if err == nil && n >= 1 && n <= len(q.Choices) {
				ok = engine.Choice(&q, q.Choices[n-1].ID)
			}
		} else {
			ok = engine.ShortAnswer(&q, answer).Correct
		}

		if ok {
			correct++
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s\n", expectedAnswer(q))
		}
		if q.Rationale != "" {
			fmt.Fprintf(out, "Why: %s\n", q.Rationale)
		}
		fmt.Fprintln(out)
	}
	return correct
}

func expectedAnswer(q quiz.Question) string {
	if c, ok := q.CorrectChoice(); ok {
		return c.Text
	}
	return strings.Join(q.CorrectKeywords, " / ")
}
