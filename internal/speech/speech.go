// Package speech turns exercise sentences into audio and plays it back.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultSampleRate is the PCM rate produced by the supported providers.
const DefaultSampleRate = 24000

// Audio is raw 16-bit little-endian PCM.
type Audio struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// Duration returns the playback length of the audio.
func (a *Audio) Duration() time.Duration {
	if a == nil || a.SampleRate <= 0 || a.Channels <= 0 {
		return 0
	}
	frames := len(a.PCM) / (2 * a.Channels)
	return time.Duration(frames) * time.Second / time.Duration(a.SampleRate)
}

// Synthesizer converts text to speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
}

// Player plays synthesized audio. Play blocks until playback finishes.
type Player interface {
	Play(ctx context.Context, audio *Audio) error
}

// ErrBusy is returned by Service.Speak while a playback is in flight.
var ErrBusy = errors.New("speech: playback already in progress")

// ErrEmptyText is returned when there is nothing to say.
var ErrEmptyText = errors.New("speech: empty text")

// SpeechError wraps a synthesis or playback failure for one utterance.
type SpeechError struct {
	Text string
	Err  error
}

func (e *SpeechError) Error() string {
	return fmt.Sprintf("speak %q: %v", truncate(e.Text, 40), e.Err)
}

func (e *SpeechError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Service synthesizes and plays utterances with at most one playback in
// flight.
type Service struct {
	synth   Synthesizer
	player  Player
	timeout time.Duration
	busy    atomic.Bool
}

// NewService creates a Service. A zero timeout means 30s. A nil player
// limits the service to Synthesize.
func NewService(synth Synthesizer, player Player, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{synth: synth, player: player, timeout: timeout}
}

// Busy reports whether a playback is in flight.
func (s *Service) Busy() bool { return s.busy.Load() }

// Speak synthesizes text and plays it. It returns ErrBusy without side
// effects if another call has not finished yet.
func (s *Service) Speak(ctx context.Context, text string) error {
	if text == "" {
		return ErrEmptyText
	}
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer s.busy.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	audio, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return s.fail(text, fmt.Errorf("synthesize: %w", err))
	}
	if s.player == nil {
		return s.fail(text, ErrNoPlayer)
	}
	if err := s.player.Play(ctx, audio); err != nil {
		return s.fail(text, fmt.Errorf("play: %w", err))
	}

	slog.Debug("speech played",
		"chars", len(text),
		"audio", audio.Duration(),
		"elapsed", time.Since(start),
	)
	return nil
}

// Synthesize returns audio for text without playing it.
func (s *Service) Synthesize(ctx context.Context, text string) (*Audio, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	audio, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, s.fail(text, err)
	}
	return audio, nil
}

func (s *Service) fail(text string, err error) error {
	se := &SpeechError{Text: text, Err: err}
	slog.Warn("speech failed", "error", se)
	return se
}
