package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNoPlayer is returned when no audio player command is installed.
var ErrNoPlayer = errors.New("no audio player found (tried afplay, paplay, aplay, ffplay)")

// playerCommands lists known players and the arguments placed before
// the file name.
var playerCommands = []struct {
	name string
	args []string
}{
	{"afplay", nil},
	{"paplay", nil},
	{"aplay", []string{"-q"}},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
}

// CommandPlayer plays audio through an external command.
type CommandPlayer struct {
	name string
	args []string
}

// NewCommandPlayer picks the first available player command.
func NewCommandPlayer() (*CommandPlayer, error) {
	return findPlayer(exec.LookPath)
}

func findPlayer(lookPath func(string) (string, error)) (*CommandPlayer, error) {
	for _, pc := range playerCommands {
		path, err := lookPath(pc.name)
		if err != nil {
			continue
		}
		return &CommandPlayer{name: path, args: pc.args}, nil
	}
	return nil, ErrNoPlayer
}

// Name returns the resolved player binary.
func (p *CommandPlayer) Name() string { return p.name }

func (p *CommandPlayer) Play(ctx context.Context, a *Audio) error {
	f, err := os.CreateTemp("", "grammarflow-*.wav")
	if err != nil {
		return fmt.Errorf("create temp wav: %w", err)
	}
	defer os.Remove(f.Name())

	if err := WriteWAV(f, a); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	args := append(append([]string(nil), p.args...), f.Name())
	out, err := exec.CommandContext(ctx, p.name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", p.name, err, out)
	}
	return nil
}
