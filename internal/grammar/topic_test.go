package grammar

import "testing"

func TestDefaultCatalog(t *testing.T) {
	topics := AllTopics()
	wantIDs := []string{"tenses", "articles", "conditionals", "prepositions", "modals", "phrasal"}
	if len(topics) != len(wantIDs) {
		t.Fatalf("expected %d topics, got %d", len(wantIDs), len(topics))
	}
	for i, id := range wantIDs {
		if topics[i].ID != id {
			t.Errorf("topic %d: id = %q, want %q", i, topics[i].ID, id)
		}
		if topics[i].Name == "" || topics[i].Description == "" {
			t.Errorf("topic %q: missing name or description", id)
		}
	}

	tenses, ok := GetTopic("tenses")
	if !ok {
		t.Fatal("expected tenses topic")
	}
	if tenses.Name != "Verb Tenses" {
		t.Errorf("tenses name = %q, want %q", tenses.Name, "Verb Tenses")
	}
	if _, ok := GetTopic("nope"); ok {
		t.Error("unexpected topic for unknown id")
	}
}

func TestCatalogTopicsReturnsCopy(t *testing.T) {
	topics := DefaultCatalog().Topics()
	topics[0].Name = "changed"
	if AllTopics()[0].Name == "changed" {
		t.Error("Topics() must not expose internal slice")
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "topics: []"},
		{"missing id", "topics:\n  - name: A\n"},
		{"missing name", "topics:\n  - id: a\n"},
		{"duplicate", "topics:\n  - {id: a, name: A}\n  - {id: a, name: B}\n"},
		{"malformed", "topics: ["},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tc.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
