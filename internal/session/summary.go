package session

import "github.com/abhisek/grammarflow/internal/grammar"

// Summary holds the data displayed when a run is complete.
type Summary struct {
	Topic      grammar.Topic      `json:"topic"`
	Difficulty grammar.Difficulty `json:"difficulty"`
	Total      int                `json:"total"`
	Correct    int                `json:"correct"`
	Percentage int                `json:"percentage"`
}

// Summary builds the end-of-run summary from the current state.
func (c *Controller) Summary() Summary {
	s := c.Snapshot()
	sum := Summary{
		Total:      len(s.Exercises),
		Correct:    s.Score,
		Percentage: percentage(s.Score, len(s.Exercises)),
	}
	if s.Topic != nil {
		sum.Topic = *s.Topic
	}
	if s.Difficulty != nil {
		sum.Difficulty = *s.Difficulty
	}
	return sum
}
