package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/practiz/internal/app"
	"github.com/abhisek/practiz/internal/bankgen"
	"github.com/abhisek/practiz/internal/llm"
	"github.com/abhisek/practiz/internal/screen"
	quizscreen "github.com/abhisek/practiz/internal/screens/quiz"
	"github.com/abhisek/practiz/internal/selection"
	"github.com/abhisek/practiz/internal/store"
)

// historyKeep is the number of session results kept after each run.
const historyKeep = 500

// playOptions preselects a course and selection for the TUI.
type playOptions struct {
	courseID string
	cfg      selection.Config
	src      selection.Source
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, play *playOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, dbPath, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	logger, restore, err := tuiLogger(cmd, dbPath)
	if err != nil {
		return err
	}
	defer restore()

	deps := quizscreen.Deps{
		Questions: st.QuestionRepo(),
		Courses:   st.CourseRepo(),
		Sessions:  st.SessionRepo(),
		Logger:    logger,
	}
	deps.Expander = newExpander(ctx, st.EventRepo(), logger)

	opts := app.Options{
		Deps:      deps,
		Selection: selection.Config{Limit: selection.DefaultLimit},
	}
	if play != nil {
		opts.Selection = play.cfg
		if play.courseID != "" {
			start, err := openQuiz(ctx, st, play, deps)
			if err != nil {
				return err
			}
			opts.Start = start
		}
	}

	runErr := app.Run(opts)

	if err := st.SessionRepo().Prune(ctx, historyKeep); err != nil {
		logger.Warn("failed to prune session history", "error", err)
	}
	return runErr
}

func openQuiz(ctx context.Context, st *store.Store, play *playOptions, deps quizscreen.Deps) (screen.Screen, error) {
	course, err := st.CourseRepo().Course(ctx, play.courseID)
	if err != nil {
		return nil, fmt.Errorf("course %q: %w", play.courseID, err)
	}
	s, err := quizscreen.Open(ctx, *course, play.cfg, play.src, deps)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// newExpander builds the bank generator, or returns nil when no LLM
// provider is configured. The app works without it.
func newExpander(ctx context.Context, events store.EventRepo, logger *slog.Logger) bankgen.Expander {
	provider, err := llm.NewProviderFromEnv(ctx, events, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Question generation will be unavailable.")
		logger.Info("llm provider unavailable", "error", err)
		return nil
	}
	return bankgen.New(provider, bankgen.DefaultConfig(), logger)
}
