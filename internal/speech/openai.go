package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel = "gpt-4o-mini-tts"
	defaultOpenAIVoice = "alloy"
)

// OpenAISynthesizer uses the OpenAI speech endpoint with raw PCM output.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
	voice  string
}

// NewOpenAISynthesizer creates an OpenAI TTS client.
func NewOpenAISynthesizer(cfg ProviderConfig) (*OpenAISynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(config),
		model:  orDefault(cfg.Model, defaultOpenAIModel),
		voice:  orDefault(cfg.Voice, defaultOpenAIVoice),
	}, nil
}

func (o *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, fmt.Errorf("openai tts: %w", err)
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read openai audio: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("openai tts: empty audio")
	}
	return &Audio{PCM: pcm, SampleRate: DefaultSampleRate, Channels: 1}, nil
}
