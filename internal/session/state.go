package session

import "github.com/abhisek/grammarflow/internal/grammar"

// Phase is the user-visible step of a practice run, derived from state.
type Phase int

const (
	PhaseSelectTopic      Phase = iota // No topic chosen
	PhaseSelectDifficulty              // Topic chosen, no batch loaded
	PhaseLoading                       // Batch request in flight
	PhaseAnswering                     // Current exercise awaiting a response
	PhaseFeedback                      // Showing feedback for the current exercise
	PhaseComplete                      // All exercises answered
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectTopic:
		return "select-topic"
	case PhaseSelectDifficulty:
		return "select-difficulty"
	case PhaseLoading:
		return "loading"
	case PhaseAnswering:
		return "answering"
	case PhaseFeedback:
		return "feedback"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// State is a copy of one practice run's progress.
type State struct {
	// Topic is nil until the learner picks one.
	Topic *grammar.Topic `json:"topic"`

	// Difficulty is nil until a batch has been loaded.
	Difficulty *grammar.Difficulty `json:"difficulty"`

	Exercises    []grammar.Exercise `json:"exercises"`
	CurrentIndex int                `json:"currentIndex"`
	Score        int                `json:"score"`
	IsComplete   bool               `json:"isComplete"`
}

// Current returns the exercise at CurrentIndex.
func (s State) Current() (grammar.Exercise, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Exercises) {
		return grammar.Exercise{}, false
	}
	return s.Exercises[s.CurrentIndex], true
}

// Progress returns the 1-based position of the current exercise and the
// batch length, e.g. (2, 5) while the second of five is shown.
func (s State) Progress() (int, int) {
	if len(s.Exercises) == 0 {
		return 0, 0
	}
	return s.CurrentIndex + 1, len(s.Exercises)
}

// CompletionPercentage returns round(100 * score / exercises), or 0 when
// there are no exercises.
func (s State) CompletionPercentage() int {
	return percentage(s.Score, len(s.Exercises))
}

func (s State) clone() State {
	out := s
	if s.Topic != nil {
		t := *s.Topic
		out.Topic = &t
	}
	if s.Difficulty != nil {
		d := *s.Difficulty
		out.Difficulty = &d
	}
	if s.Exercises != nil {
		out.Exercises = make([]grammar.Exercise, len(s.Exercises))
		copy(out.Exercises, s.Exercises)
	}
	return out
}

// Feedback is the verdict on the most recent submission.
type Feedback struct {
	ExerciseID  string `json:"exerciseId"`
	Correct     bool   `json:"correct"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
	Message     string `json:"message"`
}

// MessageFunc renders the feedback message for a verdict.
type MessageFunc func(correct bool, answer string) string

// DefaultMessage is the English feedback message.
func DefaultMessage(correct bool, answer string) string {
	if correct {
		return "Excellent English!"
	}
	return "Keep learning! The answer is: " + answer
}
