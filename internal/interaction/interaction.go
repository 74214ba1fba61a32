// Package interaction holds the transient input state for the exercise
// currently on screen: the selected option, the typed text and, for
// scrambled sentences, the word bank and the assembled words.
package interaction

import (
	"math/rand/v2"

	"github.com/abhisek/grammarflow/internal/grammar"
)

// Controller is the input state for one exercise. A new Controller is
// created whenever the displayed exercise changes.
type Controller struct {
	exercise  grammar.Exercise
	selected  string
	text      string
	bank      []string
	assembled []string
}

// New initializes the state for ex. For scrambled sentences the word bank
// is a permutation, drawn from rng, of the options or, when there are none,
// of the target sentence (or answer) split on whitespace.
func New(ex grammar.Exercise, rng *rand.Rand) *Controller {
	c := &Controller{exercise: ex}
	if ex.Kind == grammar.KindScrambledSentence {
		c.bank = wordBank(ex, rng)
		c.assembled = []string{}
	}
	return c
}

func wordBank(ex grammar.Exercise, rng *rand.Rand) []string {
	var words []string
	for _, o := range ex.Options {
		if o != "" {
			words = append(words, o)
		}
	}
	if len(words) == 0 {
		words = grammar.Tokens(ex.SpeakText())
	}
	if words == nil {
		words = []string{}
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	return words
}

// Exercise returns the exercise this state belongs to.
func (c *Controller) Exercise() grammar.Exercise { return c.exercise }

// Kind is shorthand for Exercise().Kind.
func (c *Controller) Kind() grammar.Kind { return c.exercise.Kind }

// SelectOption replaces the selected option. Only multiple choice
// exercises accept a selection.
func (c *Controller) SelectOption(opt string) bool {
	if c.exercise.Kind != grammar.KindMultipleChoice {
		return false
	}
	c.selected = opt
	return true
}

// SetText replaces the text buffer verbatim. Only fill-in-blank and
// translation exercises accept text.
func (c *Controller) SetText(s string) bool {
	switch c.exercise.Kind {
	case grammar.KindFillInBlank, grammar.KindTranslation:
		c.text = s
		return true
	}
	return false
}

// PickWord moves the bank word at position to the end of the assembled
// sequence. Removal is by position so repeated words stay distinct.
func (c *Controller) PickWord(position int) bool {
	if c.exercise.Kind != grammar.KindScrambledSentence {
		return false
	}
	if position < 0 || position >= len(c.bank) {
		return false
	}
	word := c.bank[position]
	c.bank = removeAt(c.bank, position)
	c.assembled = append(c.assembled, word)
	return true
}

// UnpickWord moves the assembled word at position back to the end of the
// bank.
func (c *Controller) UnpickWord(position int) bool {
	if c.exercise.Kind != grammar.KindScrambledSentence {
		return false
	}
	if position < 0 || position >= len(c.assembled) {
		return false
	}
	word := c.assembled[position]
	c.assembled = removeAt(c.assembled, position)
	c.bank = append(c.bank, word)
	return true
}

func removeAt(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// CanSubmit reports whether the current input is complete enough to be
// evaluated.
func (c *Controller) CanSubmit() bool {
	switch c.exercise.Kind {
	case grammar.KindMultipleChoice:
		return c.selected != ""
	case grammar.KindScrambledSentence:
		return len(c.assembled) > 0
	default:
		return c.text != ""
	}
}

// Response builds the kind-appropriate response from the current state.
func (c *Controller) Response() grammar.Response {
	switch c.exercise.Kind {
	case grammar.KindMultipleChoice:
		return grammar.Response{Choice: c.selected}
	case grammar.KindScrambledSentence:
		return grammar.Response{Words: c.Assembled()}
	default:
		return grammar.Response{Text: c.text}
	}
}

// Submit evaluates the current response. It does not change the state;
// the session decides what happens next.
func (c *Controller) Submit() bool {
	return grammar.Evaluate(c.exercise, c.Response())
}

// Selected returns the selected option, or "".
func (c *Controller) Selected() string { return c.selected }

// Text returns the text buffer.
func (c *Controller) Text() string { return c.text }

// Bank returns a copy of the remaining word bank.
func (c *Controller) Bank() []string { return clone(c.bank) }

// Assembled returns a copy of the assembled word sequence.
func (c *Controller) Assembled() []string { return clone(c.assembled) }

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
