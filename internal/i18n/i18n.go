// Package i18n localizes learner-facing strings.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var (
	mu       sync.RWMutex
	bundle   *i18n.Bundle
	fallback = "en"
)

// Init loads the embedded translations with lang as the default language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}

	mu.Lock()
	bundle = b
	fallback = tag.String()
	mu.Unlock()
	return nil
}

func currentBundle() *i18n.Bundle {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b != nil {
		return b
	}
	if err := Init("en"); err != nil {
		panic(err)
	}
	mu.RLock()
	defer mu.RUnlock()
	return bundle
}

// Languages returns the tags that have translations.
func Languages() []string {
	var out []string
	for _, tag := range currentBundle().LanguageTags() {
		out = append(out, tag.String())
	}
	return out
}

// NewLocalizer creates a localizer for the given preferences. Each entry
// may be a tag or an Accept-Language header value.
func NewLocalizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(currentBundle(), langs...)
}

// WithLocalizer stores a localizer in the context.
func WithLocalizer(ctx context.Context, loc *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, loc)
}

func localizerFromCtx(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(ctxKey{}).(*i18n.Localizer); ok {
		return loc
	}
	mu.RLock()
	lang := fallback
	mu.RUnlock()
	return NewLocalizer(lang)
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
}

// Tp translates a pluralized message by ID.
func Tp(ctx context.Context, msgID string, count int) string {
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

func localize(ctx context.Context, cfg *i18n.LocalizeConfig) string {
	s, err := localizerFromCtx(ctx).Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}

// Feedback returns the localized verdict message.
func Feedback(ctx context.Context, correct bool, answer string) string {
	if correct {
		return T(ctx, "FeedbackCorrect")
	}
	return Td(ctx, "FeedbackIncorrect", map[string]any{"Answer": answer})
}
