package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/grading"
	"github.com/abhisek/practiz/internal/quiz"
)

const bankJSON = `{
  "course": {"id": "bio", "name": "Biology"},
  "questions": [
    {
      "id": "q1",
      "concept_id": "cell-membrane",
      "type": "multiple_choice",
      "prompt": "What controls what enters a cell?",
      "choices": [{"id": "a", "text": "The membrane"}, {"id": "b", "text": "The nucleus"}],
      "correct_answer_id": "a"
    },
    {
      "id": "q2",
      "concept_id": "cell-membrane",
      "type": "short_answer",
      "prompt": "Why is the membrane selectively permeable?",
      "correct_keywords": ["select"]
    }
  ]
}`

// execute runs the root command against a fresh database in dir.
func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--db", dbPath))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeBank(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "bio.json")
	require.NoError(t, os.WriteFile(path, []byte(bankJSON), 0o644))
	return path
}

func TestBankImportExportList(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "practiz.db")

	out, err := execute(t, db, "bank", "import", writeBank(t, dir))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 questions into Biology (bio)")

	out, err = execute(t, db, "bank", "list", "--course", "bio")
	require.NoError(t, err)
	assert.Contains(t, out, "cell-membrane")
	assert.Contains(t, out, "2 questions in 1 concepts")

	exportPath := filepath.Join(dir, "export.json")
	_, err = execute(t, db, "bank", "export", "--course", "bio", "--out", exportPath)
	require.NoError(t, err)

	f, err := os.Open(exportPath)
	require.NoError(t, err)
	defer f.Close()
	bank, err := quiz.DecodeBank(f)
	require.NoError(t, err)
	assert.Equal(t, "Biology", bank.Course.Name)
	require.Len(t, bank.Questions, 2)
	assert.Equal(t, "q1", bank.Questions[0].ID)
}

func TestBankImport_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	bad := strings.Replace(bankJSON, `"correct_answer_id": "a"`, `"correct_answer_id": "z"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := execute(t, filepath.Join(dir, "practiz.db"), "bank", "import", path)
	assert.Error(t, err)
}

func TestCourseMastery(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "practiz.db")
	_, err := execute(t, db, "bank", "import", writeBank(t, dir))
	require.NoError(t, err)

	out, err := execute(t, db, "course", "mastery", "set", "bio", "Cell Membrane", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "bio / Cell Membrane: 40")

	out, err = execute(t, db, "course", "mastery", "bio")
	require.NoError(t, err)
	assert.Contains(t, out, "Cell Membrane")
	assert.Contains(t, out, " 40")

	out, err = execute(t, db, "bank", "list", "--course", "bio")
	require.NoError(t, err)
	assert.Contains(t, out, "Cell Membrane")

	_, err = execute(t, db, "course", "mastery", "set", "bio", "Cell Membrane", "140")
	assert.Error(t, err)

	out, err = execute(t, db, "course", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Biology")
}

func TestHistoryAndReset(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "practiz.db")

	out, err := execute(t, db, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions yet.")

	_, err = execute(t, db, "reset")
	assert.ErrorContains(t, err, "--yes")

	out, err = execute(t, db, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Session history deleted.")
}

func TestAnswerInteractively(t *testing.T) {
	questions := []quiz.Question{
		{
			ID: "q1", ConceptID: "c", Type: quiz.TypeMultipleChoice, Prompt: "Pick",
			Choices:         []quiz.Choice{{ID: "a", Text: "Right"}, {ID: "b", Text: "Wrong"}},
			CorrectAnswerID: "a",
		},
		{
			ID: "q2", ConceptID: "c", Type: quiz.TypeShortAnswer, Prompt: "Say it",
			CorrectKeywords: []string{"osmosis"},
			Rationale:       "Water moves by osmosis.",
		},
		{
			ID: "q3", ConceptID: "c", Type: quiz.TypeShortAnswer, Prompt: "Skip me",
			CorrectKeywords: []string{"x"},
		},
	}

	var out bytes.Buffer
	in := strings.NewReader("1\nit is diffusion\n\n")
	correct := answerInteractively(in, &out, questions, grading.NewEngine(nil))

	assert.Equal(t, 1, correct)
	assert.Contains(t, out.String(), "Answer: osmosis")
	assert.Contains(t, out.String(), "Why: Water moves by osmosis.")
	assert.Contains(t, out.String(), "(skipped)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "hé", truncate("héllo", 2))
}

func TestLLMList_PurposeFilter(t *testing.T) {
	db := filepath.Join(t.TempDir(), "practiz.db")

	_, err := execute(t, db, "llm", "list", "--purpose", "question-gen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown purpose "question-gen"`)

	out, err := execute(t, db, "llm", "list", "--purpose", "bank-expand")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")
}
