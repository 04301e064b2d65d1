package bankgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a tutor writing practice questions for a student's course.

Rules:
- Write questions about the given topic only, at the level of the given course.
- Mix "multiple_choice" and "short_answer" questions.
- For multiple choice, give exactly 4 options with exactly one correct. Distractors should reflect common misconceptions, not random values.
- For short answer, list 2-5 lowercase keywords or word stems; an answer containing any one of them is graded correct. Prefer stems ("permeab") over full words.
- The rationale explains the correct answer in one or two sentences.
- The misconception hint names the mistake a wrong answer most likely reflects.
- Use plain text. No markdown.
- Do not repeat or paraphrase any question from the "already in the bank" list.`

// buildUserMessage constructs the user message for one expansion request.
func buildUserMessage(req Request, count int, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Course: %s\n", req.Course.Name)
	fmt.Fprintf(&b, "Topic: %s\n", req.TopicName)
	fmt.Fprintf(&b, "Number of questions: %d\n", count)

	b.WriteString("\nAlready in the bank:\n")
	b.WriteString(buildDedup(req.ExistingPrompts, cfg.MaxExistingPrompts))

	return b.String()
}

// buildDedup formats existing prompts for the prompt, respecting the max limit.
// Returns "None" if there are no existing prompts.
func buildDedup(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}

	// Keep only the most recent N prompts.
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}

	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
