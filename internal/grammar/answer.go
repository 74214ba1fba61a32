package grammar

import "strings"

// Response is the learner's answer in the shape its exercise kind expects.
// Only the field matching the kind is consulted.
type Response struct {
	// Choice is the selected option for multiple choice.
	Choice string `json:"choice,omitempty"`

	// Text is the typed answer for fill-in-blank and translation.
	Text string `json:"text,omitempty"`

	// Words is the assembled word sequence for scrambled sentences.
	Words []string `json:"words,omitempty"`
}

// Empty reports whether the response carries nothing to evaluate for kind k.
func (r Response) Empty(k Kind) bool {
	switch k {
	case KindMultipleChoice:
		return r.Choice == ""
	case KindScrambledSentence:
		return len(r.Words) == 0
	default:
		return r.Text == ""
	}
}

// Evaluate reports whether resp is a correct answer to ex.
//
// Rules per kind:
//   - Multiple choice: exact byte equality with the answer.
//   - Fill in blank, translation: trimmed, case-insensitive equality.
//   - Scrambled sentence: words joined by single spaces, trimmed, then
//     compared case-sensitively with the trimmed answer.
//
// The scrambled rule is case-sensitive while the text rule is not; the
// word bank already carries the answer's casing.
func Evaluate(ex Exercise, resp Response) bool {
	if resp.Empty(ex.Kind) {
		return false
	}

	switch ex.Kind {
	case KindMultipleChoice:
		return resp.Choice == ex.Answer

	case KindFillInBlank, KindTranslation:
		return strings.EqualFold(
			strings.TrimSpace(resp.Text),
			strings.TrimSpace(ex.Answer),
		)

	case KindScrambledSentence:
		assembled := strings.TrimSpace(strings.Join(resp.Words, " "))
		return assembled == strings.TrimSpace(ex.Answer)

	default:
		return false
	}
}
