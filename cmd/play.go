package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/practiz/internal/selection"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session",
	Long: `Start a practice session.

With --course the session opens directly; otherwise the course picker is
shown. --concept focuses the session on the given concepts, --mix draws from
that many random concepts, and with neither questions are drawn at random.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetString("course")
		concepts, _ := cmd.Flags().GetStringArray("concept")
		limit, _ := cmd.Flags().GetInt("limit")
		mix, _ := cmd.Flags().GetInt("mix")

		cfg := selection.Config{
			TargetConceptIDs: concepts,
			Limit:            limit,
			MixConcepts:      mix,
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid selection: %w", err)
		}
		if len(concepts) > 0 && courseID == "" {
			return fmt.Errorf("--concept requires --course")
		}

		play := &playOptions{courseID: courseID, cfg: cfg}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			play.src = selection.NewSource(seed)
		}
		return runApp(cmd, play)
	},
}

func init() {
	playCmd.Flags().String("course", "", "Course ID to practice")
	playCmd.Flags().StringArray("concept", nil, "Concept ID to focus on (repeatable)")
	playCmd.Flags().Int("limit", selection.DefaultLimit, "Number of questions per session")
	playCmd.Flags().Int("mix", 0, "Draw from this many random concepts")
	playCmd.Flags().Uint64("seed", 0, "Seed question selection for a reproducible session")
}
