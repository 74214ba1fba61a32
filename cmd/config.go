package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/grammarflow/internal/exercisegen"
	"github.com/abhisek/grammarflow/internal/i18n"
	"github.com/abhisek/grammarflow/internal/llm"
	"github.com/abhisek/grammarflow/internal/session"
	"github.com/abhisek/grammarflow/internal/speech"
	"github.com/abhisek/grammarflow/internal/store"
)

// providerOffline serves exercises from the embedded bank.
const providerOffline = "offline"

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("GRAMMARFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("grammarflow")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/grammarflow")
	v.AddConfigPath("/etc/grammarflow")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// setupLogging installs the default slog handler. The TUI owns the
// terminal, so in that mode logs go to grammarflow.log under the data
// dir. The returned func closes the log file.
func setupLogging(v *viper.Viper, tui bool) (func(), error) {
	var level slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	closer := func() {}
	if tui {
		dir, err := store.DataDir()
		if err != nil {
			return closer, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return closer, fmt.Errorf("create data dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, "grammarflow.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closer, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = func() { _ = f.Close() }
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		h = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(h))
	return closer, nil
}

// initI18n loads translations for the --lang flag.
func initI18n(v *viper.Viper) error {
	if err := i18n.Init(v.GetString("lang")); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	return nil
}

// llmConfig merges GRAMMARFLOW_* provider variables with the llm flags.
func llmConfig(v *viper.Viper) llm.Config {
	cfg := llm.ConfigFromLookup(os.Getenv)
	if p := v.GetString("llm-provider"); p != "" {
		cfg.Provider = strings.ToLower(p)
	}
	if t := v.GetDuration("llm-timeout"); t > 0 {
		cfg.Timeout = t
	}
	return cfg
}

// applyModel overrides the model of the selected provider.
func applyModel(cfg *llm.Config, model string) {
	if model == "" {
		return
	}
	switch cfg.Provider {
	case "anthropic":
		cfg.Anthropic.Model = model
	case "openai":
		cfg.OpenAI.Model = model
	case "gemini":
		cfg.Gemini.Model = model
	case "openrouter":
		cfg.OpenRouter.Model = model
	}
}

// buildGenerator returns the configured exercise generator and a short
// description of it. Without any configured provider it falls back to
// the offline bank.
func buildGenerator(ctx context.Context, v *viper.Viper, events store.EventRepo) (exercisegen.Generator, string, error) {
	cfg := llmConfig(v)
	if cfg.Provider == providerOffline {
		return offlineGenerator()
	}

	cfg, ok := cfg.Discover(os.Getenv)
	if !ok {
		slog.Warn("no LLM provider configured, using the offline exercise bank")
		return offlineGenerator()
	}
	applyModel(&cfg, v.GetString("llm-model"))

	provider, err := llm.NewProvider(ctx, cfg, events)
	if err != nil {
		return nil, "", err
	}
	slog.Info("exercise provider ready", "provider", cfg.Provider, "model", provider.ModelID())
	return exercisegen.New(provider, exercisegen.DefaultConfig()), cfg.Provider + "/" + provider.ModelID(), nil
}

func offlineGenerator() (exercisegen.Generator, string, error) {
	g, err := exercisegen.NewBankGenerator(nil)
	if err != nil {
		return nil, "", err
	}
	return g, providerOffline, nil
}

// sessionConfig builds a session.Config around gen from the batch flags.
func sessionConfig(v *viper.Viper, gen exercisegen.Generator) session.Config {
	return session.Config{
		Generator:    gen,
		Count:        v.GetInt("count"),
		FetchTimeout: v.GetDuration("fetch-timeout"),
	}
}

// speechConfig builds the speech stack configuration. "auto" picks the
// first provider with an API key, preferring Gemini.
func speechConfig(v *viper.Viper, getenv func(string) string) speech.Config {
	key := func(name string) string {
		if k := getenv(llm.EnvPrefix + name); k != "" {
			return k
		}
		return getenv(name)
	}

	cfg := speech.Config{
		Provider: strings.ToLower(v.GetString("speech-provider")),
		Gemini: speech.ProviderConfig{
			APIKey: key("GEMINI_API_KEY"),
		},
		OpenAI: speech.ProviderConfig{
			APIKey:  key("OPENAI_API_KEY"),
			BaseURL: getenv(llm.EnvPrefix + "OPENAI_BASE_URL"),
		},
		CacheDir: v.GetString("speech-cache-dir"),
		RedisURL: v.GetString("redis-url"),
		CacheTTL: v.GetDuration("speech-cache-ttl"),
		NoCache:  v.GetBool("no-speech-cache"),
		Timeout:  v.GetDuration("speech-timeout"),
	}

	if cfg.Provider == "auto" {
		switch {
		case cfg.Gemini.APIKey != "":
			cfg.Provider = "gemini"
		case cfg.OpenAI.APIKey != "":
			cfg.Provider = "openai"
		default:
			cfg.Provider = "none"
		}
	}

	voice, model := v.GetString("speech-voice"), v.GetString("speech-model")
	switch cfg.Provider {
	case "gemini":
		cfg.Gemini.Voice, cfg.Gemini.Model = voice, model
	case "openai":
		cfg.OpenAI.Voice, cfg.OpenAI.Model = voice, model
	}
	return cfg
}
