package exercisegen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert English Grammar Tutor creating practice exercises for learners of English as a second language.

Rules:
- Generate exactly the requested number of exercises for the given topic and level.
- Mix the exercise types: MULTIPLE_CHOICE, FILL_IN_BLANK, SCRAMBLED_SENTENCE and TRANSLATION.
- MULTIPLE_CHOICE: provide exactly 4 distinct options. Exactly one option must equal the answer character for character. Distractors should reflect common ESL mistakes.
- FILL_IN_BLANK: put the sentence with a "___" blank in targetSentence. The answer is only the missing word or words.
- SCRAMBLED_SENTENCE: the answer is a complete sentence. The options are exactly the words of the answer, split on spaces, in random order. Keep punctuation attached to its word.
- TRANSLATION: put the sentence to translate in targetSentence and the expected English sentence in answer. Leave options empty.
- Focus on mistakes learners commonly make with this topic.
- Each explanation states the grammar rule in one or two short sentences.
- Do not repeat any question from the "recently asked" list.`

// buildUserMessage constructs the user message for a batch request.
func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", input.Topic.Name)
	if input.Topic.Description != "" {
		fmt.Fprintf(&b, "Focus: %s\n", input.Topic.Description)
	}
	fmt.Fprintf(&b, "Level: %s (%s)\n", input.Difficulty.Label(), input.Difficulty.Blurb())
	fmt.Fprintf(&b, "Number of exercises: %d\n", input.count())

	b.WriteString("\nRecently asked:\n")
	b.WriteString(buildAvoid(input.Avoid, cfg.MaxAvoid))

	return b.String()
}
