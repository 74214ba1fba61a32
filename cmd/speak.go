package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/grammarflow/internal/speech"
)

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Read a sentence aloud with the configured voice",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viperForCmd(cmd)
		if _, err := setupLogging(v, false); err != nil {
			return err
		}
		ctx := cmd.Context()
		text := strings.Join(args, " ")

		cfg := speechConfig(v, os.Getenv)
		out, _ := cmd.Flags().GetString("output")
		if out != "" {
			synth, err := speech.NewSynthesizer(ctx, cfg)
			if err != nil {
				return err
			}
			if synth == nil {
				return errors.New("speech is disabled: set GEMINI_API_KEY or OPENAI_API_KEY")
			}
			audio, err := speech.NewService(synth, nil, cfg.Timeout).Synthesize(ctx, text)
			if err != nil {
				return err
			}
			data, err := speech.EncodeWAV(audio)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Wrote %s (%s)\n", out, audio.Duration().Round(10*time.Millisecond))
			return nil
		}

		svc, err := speech.New(ctx, cfg)
		if err != nil {
			return err
		}
		if svc == nil {
			return errors.New("speech is disabled: set GEMINI_API_KEY or OPENAI_API_KEY")
		}
		return svc.Speak(ctx, text)
	},
}

func init() {
	speakCmd.Flags().StringP("output", "o", "", "Write a WAV file instead of playing")
}
