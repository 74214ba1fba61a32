package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "gemini-2.5-flash",
			Model:        "gemini-2.5-flash",
			Purpose:      "exercise-batch",
			InputTokens:  100 + i,
			OutputTokens: 50,
			LatencyMs:    int64(200 * (i + 1)),
			Success:      i != 1,
			ErrorMessage: map[bool]string{true: "", false: "rate limited"}[i != 1],
			RequestBody:  fmt.Sprintf("[user]\nrequest %d", i),
			ResponseBody: `{"exercises":[]}`,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].ID <= events[1].ID {
		t.Errorf("events not newest first: %d, %d", events[0].ID, events[1].ID)
	}
	if events[1].Success || events[1].ErrorMessage != "rate limited" {
		t.Errorf("unexpected failed event: %+v", events[1])
	}
	if time.Since(events[0].Timestamp) > time.Minute {
		t.Errorf("timestamp not recent: %v", events[0].Timestamp)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit ignored: got %d", len(limited))
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: int64(events[2].ID)})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after filter: got %d, want 2", len(after))
	}

	none, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "speech"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("purpose filter: got %d, want 0", len(none))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Model:        "gpt-4o-mini",
		Purpose:      "exercise-batch",
		Success:      true,
		RequestBody:  "[system]\nYou are an expert English Grammar Tutor.",
		ResponseBody: `{"exercises":[{"id":"1"}]}`,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(events))
	}

	e, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil {
		t.Fatal("expected event")
	}
	if e.ResponseBody != `{"exercises":[{"id":"1"}]}` || !e.Success {
		t.Errorf("unexpected event: %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []LLMRequestEventData{
		{Model: "gpt-4o-mini", Purpose: "exercise-batch", InputTokens: 100, OutputTokens: 40, LatencyMs: 100},
		{Model: "gpt-4o-mini", Purpose: "exercise-batch", InputTokens: 200, OutputTokens: 60, LatencyMs: 300},
		{Model: "gemini-2.5-flash", Purpose: "warmup", InputTokens: 10, OutputTokens: 5, LatencyMs: 50},
	}
	for _, d := range data {
		if err := repo.AppendLLMRequest(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	batch := byPurpose[0]
	if batch.Purpose != "exercise-batch" || batch.Calls != 2 ||
		batch.InputTokens != 300 || batch.OutputTokens != 100 || batch.AvgLatencyMs != 200 {
		t.Errorf("unexpected exercise-batch usage: %+v", batch)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gemini-2.5-flash" {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Purpose: "exercise-batch"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events after reset", len(events))
	}
}

func TestDataDirHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DataDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "grammarflow"); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}

func TestInMemoryRoundTrip(t *testing.T) {
	s, err := Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	repo := s.EventRepo()
	want := LLMRequestEventData{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Purpose:      "exercise-batch",
		InputTokens:  321,
		OutputTokens: 123,
		LatencyMs:    950,
		Success:      true,
		RequestBody:  "[system]\nYou are an expert English grammar tutor.",
		ResponseBody: `{"exercises":[{"type":"FILL_IN_BLANK"}]}`,
	}
	if err := repo.AppendLLMRequest(ctx, want); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LLMRequestEventData != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got.LLMRequestEventData, want)
	}
}

func TestMigrationCreatesSchema(t *testing.T) {
	s := openTestStore(t)

	rows, err := s.DB().Query("SELECT name FROM pragma_table_info('llm_requests')")
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	if len(cols) != len(llmEventColumns) {
		t.Fatalf("columns = %v, want %v", cols, llmEventColumns)
	}
	for i, c := range llmEventColumns {
		if cols[i] != c {
			t.Errorf("column %d = %q, want %q", i, cols[i], c)
		}
	}

	var idx int
	if err := s.DB().QueryRow("SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = 'llmrequest_purpose'").Scan(&idx); err != nil {
		t.Fatalf("index lookup: %v", err)
	}
	if idx != 1 {
		t.Error("purpose index missing")
	}
}
