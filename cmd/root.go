package cmd

import (
	"github.com/abhisek/grammarflow/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "grammarflow",
	Short: "Practice English grammar in the terminal",
	Long:  "GrammarFlow generates short grammar exercises per topic and difficulty and checks your answers as you go.",
	RunE:  runPlay,

	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides GRAMMARFLOW_DB)")
	pf.StringP("lang", "l", "en", "Interface language (en, es)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")

	pf.String("llm-provider", "", "Exercise provider (gemini, openai, anthropic, openrouter, offline); empty discovers from API keys")
	pf.String("llm-model", "", "Model override for the selected provider")
	pf.Duration("llm-timeout", 0, "Timeout for one LLM request including retries (0 = provider default)")

	pf.String("speech-provider", "auto", "Text-to-speech provider (auto, gemini, openai, none)")
	pf.String("speech-voice", "", "Voice override for the speech provider")
	pf.String("speech-model", "", "Model override for the speech provider")
	pf.String("speech-cache-dir", "", "Directory for cached audio (default under the user cache dir)")
	pf.String("redis-url", "", "Redis URL for a shared audio cache (replaces the file cache)")
	pf.Duration("speech-cache-ttl", 0, "Expiry for Redis-cached audio (0 = 7 days)")
	pf.Bool("no-speech-cache", false, "Disable audio caching")
	pf.Duration("speech-timeout", 0, "Timeout for one synthesis plus playback (0 = 30s)")

	pf.Int("count", 0, "Exercises per batch (0 = default)")
	pf.Duration("fetch-timeout", 0, "Timeout for one batch request (0 = 60s)")

	rootCmd.Flags().Bool("skip-welcome", false, "Start at the topic menu")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db / GRAMMARFLOW_DB,
// then the default XDG path.
func resolveDBPath(v *viper.Viper) (string, error) {
	if p := v.GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens it.
func openStore(v *viper.Viper) (*store.Store, error) {
	dbPath, err := resolveDBPath(v)
	if err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}
