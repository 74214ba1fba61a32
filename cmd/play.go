package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarflow/internal/app"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/speech"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session in the terminal",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().Bool("skip-welcome", false, "Start at the topic menu")
}

// runPlay opens the store, builds the generator and speech service, and
// launches the TUI.
func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	v := viperForCmd(cmd)

	closeLog, err := setupLogging(v, true)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := initI18n(v); err != nil {
		return err
	}

	st, err := openStore(v)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	gen, source, err := buildGenerator(ctx, v, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not available:", err)
		fmt.Fprintln(os.Stderr, "Falling back to the offline exercise bank.")
		if gen, source, err = offlineGenerator(); err != nil {
			return err
		}
	}
	slog.Info("starting practice", "source", source)

	svc, err := speech.New(ctx, speechConfig(v, os.Getenv))
	if err != nil {
		slog.Warn("speech unavailable", "error", err)
		svc = nil
	}

	return app.Run(app.Options{
		Ctx:         ctx,
		Session:     session.New(sessionConfig(v, gen)),
		Speech:      svc,
		SkipWelcome: v.GetBool("skip-welcome"),
	})
}
