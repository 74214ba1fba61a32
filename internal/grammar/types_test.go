package grammar

import "testing"

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
		ok   bool
	}{
		{"BEGINNER", Beginner, true},
		{"intermediate", Intermediate, true},
		{" Advanced ", Advanced, true},
		{"expert", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseDifficulty(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseDifficulty(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDifficultyLabels(t *testing.T) {
	for _, d := range AllDifficulties() {
		if d.Label() == string(d) {
			t.Errorf("%s: missing label", d)
		}
		if d.Blurb() == "" {
			t.Errorf("%s: missing blurb", d)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"MULTIPLE_CHOICE", KindMultipleChoice, true},
		{"fill-in-blank", KindFillInBlank, true},
		{"Scrambled Sentence", KindScrambledSentence, true},
		{"translation", KindTranslation, true},
		{"essay", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseKind(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseKind(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSpeakText(t *testing.T) {
	ex := Exercise{TargetSentence: "I have been here.", Answer: "have been"}
	if got := ex.SpeakText(); got != "I have been here." {
		t.Errorf("SpeakText() = %q, want target sentence", got)
	}

	ex.TargetSentence = ""
	if got := ex.SpeakText(); got != "have been" {
		t.Errorf("SpeakText() = %q, want answer fallback", got)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("  the  cat\tsat \n")
	want := []string{"the", "cat", "sat"}
	if len(got) != len(want) {
		t.Fatalf("Tokens() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokens()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPrompt(t *testing.T) {
	ex := Exercise{Question: "Fill in the blank:"}
	if got := ex.Prompt(); got != "Fill in the blank:" {
		t.Errorf("Prompt() = %q", got)
	}
	ex.TargetSentence = "She ___ to school."
	if got := ex.Prompt(); got != "Fill in the blank: She ___ to school." {
		t.Errorf("Prompt() = %q", got)
	}
}
