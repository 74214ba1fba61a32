package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/grammarflow/internal/exercisegen"
	"github.com/abhisek/grammarflow/internal/grammar"
	"github.com/abhisek/grammarflow/internal/interaction"
)

// Config holds the collaborators and limits of a Controller.
type Config struct {
	// Generator supplies exercise batches.
	Generator exercisegen.Generator

	// Count is the requested batch size. Zero means exercisegen.DefaultCount.
	Count int

	// FetchTimeout bounds a single batch request. Zero means 60s.
	FetchTimeout time.Duration

	// Rand shuffles word banks. Nil seeds one randomly.
	Rand *rand.Rand

	// Message renders feedback text. Nil means DefaultMessage.
	Message MessageFunc

	// MaxRecent caps remembered questions per topic. Zero means 30.
	MaxRecent int
}

const (
	defaultFetchTimeout = 60 * time.Second
	defaultMaxRecent    = 30
)

// Ticket identifies one batch request. Only the latest ticket's batch is
// applied.
type Ticket struct {
	token      uint64
	Topic      grammar.Topic
	Difficulty grammar.Difficulty
	avoid      []string
}

// Controller owns one practice run: the topic and difficulty, the batch,
// the position and score, the current exercise's input state and the
// latest feedback. It is safe for concurrent use.
type Controller struct {
	cfg Config

	mu          sync.Mutex
	state       State
	input       *interaction.Controller
	feedback    *Feedback
	err         error
	loading     bool
	token       uint64
	lastRequest *grammar.Difficulty
	recent      map[string][]string
}

// New creates a Controller in the initial empty state.
func New(cfg Config) *Controller {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.MaxRecent <= 0 {
		cfg.MaxRecent = defaultMaxRecent
	}
	if cfg.Message == nil {
		cfg.Message = DefaultMessage
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Controller{
		cfg:    cfg,
		recent: make(map[string][]string),
	}
}

// SelectTopic sets the topic and clears any previous fetch error. The
// difficulty and exercises are left as they are.
func (c *Controller) SelectTopic(topic grammar.Topic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := topic
	c.state.Topic = &t
	c.err = nil
}

// BackToTopics clears the selected topic only.
func (c *Controller) BackToTopics() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Topic = nil
	c.err = nil
}

// StartPractice requests a batch for the selected topic at difficulty d
// and, on success, starts a new run with it. On failure the state is left
// unchanged and a *ContentFetchError is returned.
func (c *Controller) StartPractice(ctx context.Context, d grammar.Difficulty) error {
	t, err := c.BeginFetch(d)
	if err != nil {
		return err
	}
	exercises, err := c.Fetch(ctx, t)
	return c.ApplyBatch(t, exercises, err)
}

// Retry repeats the most recent practice request.
func (c *Controller) Retry(ctx context.Context) error {
	t, err := c.BeginRetry()
	if err != nil {
		return err
	}
	exercises, err := c.Fetch(ctx, t)
	return c.ApplyBatch(t, exercises, err)
}

// BeginRetry issues a ticket for the most recent practice request.
func (c *Controller) BeginRetry() (Ticket, error) {
	c.mu.Lock()
	last := c.lastRequest
	c.mu.Unlock()
	if last == nil {
		return Ticket{}, ErrNothingToRetry
	}
	return c.BeginFetch(*last)
}

// BeginFetch issues a ticket for a batch request and marks the controller
// as loading. Any earlier outstanding ticket becomes stale.
func (c *Controller) BeginFetch(d grammar.Difficulty) (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Topic == nil {
		return Ticket{}, ErrNoTopic
	}

	c.token++
	c.loading = true
	c.err = nil
	req := d
	c.lastRequest = &req

	topic := *c.state.Topic
	avoid := append([]string(nil), c.recent[topic.ID]...)
	return Ticket{token: c.token, Topic: topic, Difficulty: d, avoid: avoid}, nil
}

// Fetch calls the generator for ticket t under the configured timeout.
// It does not touch controller state and may run on any goroutine.
func (c *Controller) Fetch(ctx context.Context, t Ticket) ([]grammar.Exercise, error) {
	if c.cfg.Generator == nil {
		return nil, errors.New("no content generator configured")
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
	defer cancel()

	return c.cfg.Generator.Generate(ctx, exercisegen.Input{
		Topic:      t.Topic,
		Difficulty: t.Difficulty,
		Count:      c.cfg.Count,
		Avoid:      t.avoid,
	})
}

// ApplyBatch applies the outcome of ticket t. Outcomes of superseded
// tickets are dropped with ErrStaleResponse. A fetch error or an empty
// batch leaves the run untouched and returns a *ContentFetchError.
func (c *Controller) ApplyBatch(t Ticket, exercises []grammar.Exercise, fetchErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.token != c.token {
		slog.Debug("dropping stale exercise batch", "topic", t.Topic.ID, "difficulty", t.Difficulty)
		return ErrStaleResponse
	}
	c.loading = false

	if fetchErr == nil && len(exercises) == 0 {
		fetchErr = errors.New("provider returned no exercises")
	}
	if fetchErr != nil {
		fe := &ContentFetchError{Topic: t.Topic, Difficulty: t.Difficulty, Err: fetchErr}
		c.err = fe
		slog.Warn("exercise batch request failed",
			"topic", t.Topic.ID,
			"difficulty", t.Difficulty,
			"error", fetchErr,
		)
		return fe
	}

	d := t.Difficulty
	batch := make([]grammar.Exercise, len(exercises))
	copy(batch, exercises)
	c.state.Difficulty = &d
	c.state.Exercises = batch
	c.state.CurrentIndex = 0
	c.state.Score = 0
	c.state.IsComplete = false
	c.feedback = nil
	c.err = nil
	c.input = interaction.New(batch[0], c.cfg.Rand)
	c.remember(t.Topic.ID, batch)

	slog.Info("practice started",
		"topic", t.Topic.ID,
		"difficulty", d,
		"exercises", len(batch),
	)
	return nil
}

func (c *Controller) remember(topicID string, batch []grammar.Exercise) {
	prior := c.recent[topicID]
	for _, ex := range batch {
		prior = append(prior, ex.Prompt())
	}
	if len(prior) > c.cfg.MaxRecent {
		prior = prior[len(prior)-c.cfg.MaxRecent:]
	}
	c.recent[topicID] = prior
}

// RecordAnswer increments the score when correct. It does not advance.
func (c *Controller) RecordAnswer(correct bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recordAnswer(correct)
}

func (c *Controller) recordAnswer(correct bool) {
	if correct {
		c.state.Score++
	}
}

// Submit evaluates the current response, records the score and stores
// feedback. It reports false, changing nothing, when there is no active
// exercise, the response is incomplete or the exercise was already
// answered.
func (c *Controller) Submit() (Feedback, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.input == nil || c.state.IsComplete || c.feedback != nil {
		return Feedback{}, false
	}
	if !c.input.CanSubmit() {
		return Feedback{}, false
	}

	ex := c.input.Exercise()
	correct := c.input.Submit()
	c.recordAnswer(correct)

	c.feedback = &Feedback{
		ExerciseID:  ex.ID,
		Correct:     correct,
		Answer:      ex.Answer,
		Explanation: ex.Explanation,
		Message:     c.cfg.Message(correct, ex.Answer),
	}
	return *c.feedback, true
}

// Advance moves to the next exercise or, after the last one, marks the
// run complete. Feedback is cleared. Calls after completion are no-ops.
func (c *Controller) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsComplete || len(c.state.Exercises) == 0 {
		return
	}
	c.feedback = nil

	if c.state.CurrentIndex+1 < len(c.state.Exercises) {
		c.state.CurrentIndex++
		c.input = interaction.New(c.state.Exercises[c.state.CurrentIndex], c.cfg.Rand)
		return
	}
	c.state.IsComplete = true
	c.input = nil
	slog.Info("practice complete",
		"score", c.state.Score,
		"total", len(c.state.Exercises),
	)
}

// Restart returns the run to its initial empty state. Input state,
// feedback and errors are cleared and outstanding requests become stale.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{}
	c.input = nil
	c.feedback = nil
	c.err = nil
	c.loading = false
	c.lastRequest = nil
	c.token++
}

// Abandon drops the current run and any outstanding request but keeps
// the selected topic, so a different difficulty can be chosen.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandon()
}

// LeaveTopic drops the current run, any outstanding request and the
// selected topic in one step.
func (c *Controller) LeaveTopic() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandon()
	c.state.Topic = nil
}

func (c *Controller) abandon() {
	c.state.Difficulty = nil
	c.state.Exercises = nil
	c.state.CurrentIndex = 0
	c.state.Score = 0
	c.state.IsComplete = false
	c.input = nil
	c.feedback = nil
	c.err = nil
	c.loading = false
	c.token++
}

// SelectOption forwards to the current exercise's input state.
func (c *Controller) SelectOption(opt string) bool {
	return c.withInput(func(in *interaction.Controller) bool { return in.SelectOption(opt) })
}

// SetText forwards to the current exercise's input state.
func (c *Controller) SetText(s string) bool {
	return c.withInput(func(in *interaction.Controller) bool { return in.SetText(s) })
}

// PickWord forwards to the current exercise's input state.
func (c *Controller) PickWord(position int) bool {
	return c.withInput(func(in *interaction.Controller) bool { return in.PickWord(position) })
}

// UnpickWord forwards to the current exercise's input state.
func (c *Controller) UnpickWord(position int) bool {
	return c.withInput(func(in *interaction.Controller) bool { return in.UnpickWord(position) })
}

// withInput runs fn on the input state unless the exercise has already
// been answered.
func (c *Controller) withInput(fn func(*interaction.Controller) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.input == nil || c.feedback != nil {
		return false
	}
	return fn(c.input)
}

// CompletionPercentage returns round(100 * score / exercises), or 0 when
// there are no exercises.
func (c *Controller) CompletionPercentage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.CompletionPercentage()
}

func percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// Snapshot returns a copy of the run state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// View is everything a surface needs to render the run.
type View struct {
	State     State     `json:"state"`
	Phase     string    `json:"phase"`
	Selected  string    `json:"selected,omitempty"`
	Text      string    `json:"text,omitempty"`
	Bank      []string  `json:"bank,omitempty"`
	Assembled []string  `json:"assembled,omitempty"`
	CanSubmit bool      `json:"canSubmit"`
	Feedback  *Feedback `json:"feedback,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// View returns a consistent copy of the run and the current input state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State: c.state.clone(),
		Phase: c.phase().String(),
	}
	if c.input != nil {
		v.Selected = c.input.Selected()
		v.Text = c.input.Text()
		v.Bank = c.input.Bank()
		v.Assembled = c.input.Assembled()
		v.CanSubmit = c.feedback == nil && c.input.CanSubmit()
	}
	if c.feedback != nil {
		fb := *c.feedback
		v.Feedback = &fb
	}
	if c.err != nil {
		v.Error = FetchErrorMessage
	}
	return v
}

// Phase returns the current user-visible step.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase()
}

func (c *Controller) phase() Phase {
	switch {
	case c.state.Topic == nil:
		return PhaseSelectTopic
	case c.loading:
		return PhaseLoading
	case len(c.state.Exercises) == 0:
		return PhaseSelectDifficulty
	case c.state.IsComplete:
		return PhaseComplete
	case c.feedback != nil:
		return PhaseFeedback
	default:
		return PhaseAnswering
	}
}

// Feedback returns the latest feedback, if any.
func (c *Controller) Feedback() (Feedback, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.feedback == nil {
		return Feedback{}, false
	}
	return *c.feedback, true
}

// Err returns the last fetch error, cleared by a new request, a topic
// change or a restart.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Loading reports whether a batch request is outstanding.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// String is used in debug logs.
func (c *Controller) String() string {
	s := c.Snapshot()
	topic := "-"
	if s.Topic != nil {
		topic = s.Topic.ID
	}
	return fmt.Sprintf("session{topic=%s index=%d/%d score=%d complete=%t}",
		topic, s.CurrentIndex, len(s.Exercises), s.Score, s.IsComplete)
}
