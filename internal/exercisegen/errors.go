package exercisegen

import (
	"fmt"
	"strings"
)

// InvalidBatchError is returned when a provider payload yields no usable
// exercise, either because it could not be decoded or because every entry
// was quarantined.
type InvalidBatchError struct {
	Rejected []*ValidationError
	Err      error
}

func (e *InvalidBatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid exercise batch: %v", e.Err)
	}
	msgs := make([]string, 0, len(e.Rejected))
	for _, r := range e.Rejected {
		msgs = append(msgs, r.Error())
	}
	if len(msgs) == 0 {
		return "invalid exercise batch: no exercises"
	}
	return fmt.Sprintf("invalid exercise batch: %d rejected: %s", len(msgs), strings.Join(msgs, "; "))
}

func (e *InvalidBatchError) Unwrap() error { return e.Err }
