package speech

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strconv"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash-preview-tts"
	defaultGeminiVoice = "Kore"
)

// GeminiSynthesizer uses Gemini's native audio output.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
	voice  string
}

// NewGeminiSynthesizer creates a Gemini TTS client.
func NewGeminiSynthesizer(ctx context.Context, cfg ProviderConfig) (*GeminiSynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiSynthesizer{
		client: client,
		model:  orDefault(cfg.Model, defaultGeminiModel),
		voice:  orDefault(cfg.Voice, defaultGeminiVoice),
	}, nil
}

func (g *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.voice},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(speakPrompt(text)), config)
	if err != nil {
		return nil, fmt.Errorf("gemini tts: %w", err)
	}
	return audioFromGemini(result)
}

func speakPrompt(text string) string {
	return "Say clearly and naturally for an English learner: " + text
}

// audioFromGemini extracts the first inline audio part of a response.
func audioFromGemini(result *genai.GenerateContentResponse) (*Audio, error) {
	if result == nil {
		return nil, errors.New("gemini tts: empty response")
	}
	for _, cand := range result.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			return &Audio{
				PCM:        part.InlineData.Data,
				SampleRate: sampleRateFromMIME(part.InlineData.MIMEType),
				Channels:   1,
			}, nil
		}
	}
	return nil, errors.New("gemini tts: response has no audio")
}

// sampleRateFromMIME reads the rate parameter of e.g.
// "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMIME(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return DefaultSampleRate
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return DefaultSampleRate
	}
	return rate
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
