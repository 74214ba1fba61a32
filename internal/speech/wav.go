package speech

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth      = 16
	wavFormatPCM  = 1
	bytesPerFrame = bitDepth / 8
)

// WriteWAV writes a as a 16-bit PCM WAV file to ws.
func WriteWAV(ws io.WriteSeeker, a *Audio) error {
	if a == nil || a.SampleRate <= 0 || a.Channels <= 0 {
		return errors.New("invalid audio format")
	}

	enc := wav.NewEncoder(ws, a.SampleRate, bitDepth, a.Channels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: a.Channels, SampleRate: a.SampleRate},
		Data:           samples(a.PCM),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// EncodeWAV returns a as a complete WAV file.
func EncodeWAV(a *Audio) ([]byte, error) {
	var mem memFile
	if err := WriteWAV(&mem, a); err != nil {
		return nil, err
	}
	return mem.buf, nil
}

// samples decodes little-endian int16 PCM. A trailing odd byte is dropped.
func samples(pcm []byte) []int {
	out := make([]int, len(pcm)/bytesPerFrame)
	for i := range out {
		out[i] = int(int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8))
	}
	return out
}

// memFile is an in-memory io.WriteSeeker. The WAV encoder seeks back to
// patch chunk sizes once the data length is known.
type memFile struct {
	buf []byte
	pos int
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		m.buf = append(m.buf, make([]byte, end-len(m.buf))...)
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = len(m.buf)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	next := base + int(offset)
	if next < 0 {
		return 0, errors.New("negative seek position")
	}
	m.pos = next
	return int64(next), nil
}
