package checkpoint

import (
	"context"
	"errors"
	"testing"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	st := sampleState("sess-1")
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ConversationSummary != st.ConversationSummary {
		t.Errorf("summary = %q, want %q", got.ConversationSummary, st.ConversationSummary)
	}
	if len(got.ActionsTaken) != len(st.ActionsTaken) {
		t.Errorf("actions taken = %v", got.ActionsTaken)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "none")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDoesNotAlias(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	st := sampleState("sess-1")
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's state after save must not touch the snapshot.
	st.MessageLog = append(st.MessageLog, session.Message{Role: "assistant", Content: "later"})
	st.ActiveDocuments[0] = "MUTATED"

	got, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.MessageLog) != 1 {
		t.Errorf("snapshot message log grew: %d entries", len(got.MessageLog))
	}
	if got.ActiveDocuments[0] != "INV-001" {
		t.Errorf("snapshot aliased caller slice: %v", got.ActiveDocuments)
	}

	// Mutating a loaded copy must not touch the snapshot either.
	got.ConversationSummary = "scribbled"
	again, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.ConversationSummary == "scribbled" {
		t.Errorf("loaded copy aliases the snapshot")
	}
}
