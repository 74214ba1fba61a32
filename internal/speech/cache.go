package speech

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Cache stores synthesized audio by key.
type Cache interface {
	// Get returns the cached audio, or (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) (*Audio, bool, error)
	Put(ctx context.Context, key string, audio *Audio) error
}

// Voice names the provider, model and speaker that produce audio. Audio
// from one voice is never served for another.
type Voice struct {
	Provider string
	Model    string
	Name     string
}

// CacheKey identifies the audio for text spoken by v.
func CacheKey(v Voice, text string) string {
	h := sha256.New()
	for _, part := range []string{v.Provider, v.Model, v.Name, text} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CachedSynthesizer serves repeated utterances from a Cache.
type CachedSynthesizer struct {
	next  Synthesizer
	cache Cache
	voice Voice
}

// NewCachedSynthesizer wraps next with cache. voice namespaces the keys.
func NewCachedSynthesizer(next Synthesizer, cache Cache, voice Voice) *CachedSynthesizer {
	return &CachedSynthesizer{next: next, cache: cache, voice: voice}
}

func (c *CachedSynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	key := CacheKey(c.voice, text)

	if audio, ok, err := c.cache.Get(ctx, key); err != nil {
		slog.Warn("speech cache read failed", "error", err)
	} else if ok {
		return audio, nil
	}

	audio, err := c.next.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, key, audio); err != nil {
		slog.Warn("speech cache write failed", "error", err)
	}
	return audio, nil
}

// Cached entries carry a small header: sample rate and channel count as
// little-endian uint32s, followed by the PCM bytes.
const headerSize = 8

func marshalAudio(a *Audio) []byte {
	buf := make([]byte, headerSize+len(a.PCM))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(a.SampleRate))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(a.Channels))
	copy(buf[headerSize:], a.PCM)
	return buf
}

func unmarshalAudio(data []byte) (*Audio, error) {
	if len(data) < headerSize {
		return nil, errors.New("cached audio too short")
	}
	a := &Audio{
		SampleRate: int(binary.LittleEndian.Uint32(data[0:4])),
		Channels:   int(binary.LittleEndian.Uint32(data[4:8])),
		PCM:        append([]byte(nil), data[headerSize:]...),
	}
	if a.SampleRate <= 0 || a.Channels <= 0 {
		return nil, fmt.Errorf("cached audio has invalid format %d/%d", a.SampleRate, a.Channels)
	}
	return a, nil
}

// FileCache stores audio as files under a directory.
type FileCache struct {
	dir string
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create speech cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// DefaultCacheDir returns the per-user cache directory for audio.
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "grammarflow", "speech"), nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".pcm")
}

func (c *FileCache) Get(_ context.Context, key string) (*Audio, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	a, err := unmarshalAudio(data)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func (c *FileCache) Put(_ context.Context, key string, audio *Audio) error {
	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(marshalAudio(audio)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}
