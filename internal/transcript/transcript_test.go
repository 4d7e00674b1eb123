package transcript

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func tempLog(t *testing.T) *Log {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	l, err := NewLog(db)
	if err != nil {
		t.Fatalf("new log: %v", err)
	}
	return l
}

func TestAppendAndBySession(t *testing.T) {
	l := tempLog(t)

	entries := []Entry{
		{SessionID: "s1", TurnID: "t1", Stage: "answer", Tool: "document_search", Input: `{"query":"invoices"}`, Output: `[{"id":"INV-001"}]`},
		{SessionID: "s1", TurnID: "t1", Stage: "answer", Tool: "document_get", Input: `["INV-001"]`},
		{SessionID: "s2", TurnID: "t9", Stage: "calculate", Tool: "evaluate", Input: `{"expression":"1+1"}`, Output: `{"result":2}`},
	}
	for _, e := range entries {
		if err := l.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := l.BySession("s1", 100)
	if err != nil {
		t.Fatalf("by session: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Tool != "document_search" || got[1].Tool != "document_get" {
		t.Errorf("order wrong: %s, %s", got[0].Tool, got[1].Tool)
	}
	if got[1].Output != "" {
		t.Errorf("empty output round-tripped as %q", got[1].Output)
	}
	if got[0].CreatedAt.IsZero() {
		t.Errorf("created_at not populated")
	}
}

func TestBySessionLimit(t *testing.T) {
	l := tempLog(t)
	for i := 0; i < 5; i++ {
		if err := l.Append(Entry{SessionID: "s1", TurnID: "t1", Stage: "answer", Tool: "document_search"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := l.BySession("s1", 3)
	if err != nil {
		t.Fatalf("by session: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("entries = %d, want 3", len(got))
	}
}

func TestBySessionUnknownSession(t *testing.T) {
	l := tempLog(t)
	got, err := l.BySession("nope", 10)
	if err != nil {
		t.Fatalf("by session: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("entries = %d, want 0", len(got))
	}
}
