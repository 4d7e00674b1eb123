package checkpoint

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

func tempStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleState(sessionID string) *session.State {
	st := session.NewState(sessionID, "user-1")
	st.UserInput = "what is the total on INV-001?"
	st.MessageLog = []session.Message{
		{Role: "user", Content: "what is the total on INV-001?", CreatedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)},
	}
	st.Intent = &schema.Intent{Category: schema.IntentCalculate, Confidence: 0.95, Reasoning: "asks for a total"}
	st.NextStage = session.StageEnd
	st.ConversationSummary = "user reviewing invoice totals"
	st.ActiveDocuments = []string{"INV-001"}
	st.CurrentResponse = schema.NewCalculationResponse(schema.CalculationResult{
		Expression: "20000 + 2000",
		Result:     22000,
		Units:      "USD",
	})
	st.ToolsUsed = []session.ToolCall{{Tool: "evaluate", Input: `{"expression":"20000 + 2000"}`, Output: `{"result":22000}`}}
	st.ActionsTaken = []string{session.StageClassify, session.StageCalculate, session.StageUpdateMemory}
	return st
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	want := sampleState("sess-1")
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.SessionID != want.SessionID || got.UserID != want.UserID {
		t.Errorf("identity mismatch: got %s/%s", got.SessionID, got.UserID)
	}
	if !reflect.DeepEqual(got.MessageLog, want.MessageLog) {
		t.Errorf("message log mismatch:\n got %+v\nwant %+v", got.MessageLog, want.MessageLog)
	}
	if !reflect.DeepEqual(got.Intent, want.Intent) {
		t.Errorf("intent mismatch: got %+v", got.Intent)
	}
	if !reflect.DeepEqual(got.ActiveDocuments, want.ActiveDocuments) {
		t.Errorf("active documents mismatch: got %v", got.ActiveDocuments)
	}
	if !reflect.DeepEqual(got.ActionsTaken, want.ActionsTaken) {
		t.Errorf("actions taken mismatch: got %v", got.ActionsTaken)
	}
	if got.CurrentResponse == nil || got.CurrentResponse.Kind != schema.ResponseCalculation {
		t.Fatalf("current response mismatch: %+v", got.CurrentResponse)
	}
	if got.CurrentResponse.Calculation.Result != 22000 {
		t.Errorf("calculation result = %v, want 22000", got.CurrentResponse.Calculation.Result)
	}
	if got.ConversationSummary != want.ConversationSummary {
		t.Errorf("summary = %q", got.ConversationSummary)
	}
}

func TestSaveOverwritesPriorCheckpoint(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	st := sampleState("sess-1")
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	st.ConversationSummary = "updated after second turn"
	st.ActionsTaken = append(st.ActionsTaken, session.StageClassify)
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ConversationSummary != "updated after second turn" {
		t.Errorf("summary = %q, want overwrite", got.ConversationSummary)
	}
	if len(got.ActionsTaken) != 4 {
		t.Errorf("actions taken = %v, want 4 entries", got.ActionsTaken)
	}
}

func TestLoadMissingSession(t *testing.T) {
	store := tempStore(t)
	_, err := store.Load(context.Background(), "never-seen")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSessionsIsolated(t *testing.T) {
	store := tempStore(t)
	ctx := context.Background()

	a := sampleState("sess-a")
	b := sampleState("sess-b")
	b.ConversationSummary = "different session"
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("save b: %v", err)
	}

	gotA, err := store.Load(ctx, "sess-a")
	if err != nil {
		t.Fatalf("load a: %v", err)
	}
	if gotA.ConversationSummary != "user reviewing invoice totals" {
		t.Errorf("session a leaked session b's summary: %q", gotA.ConversationSummary)
	}

	ids, err := store.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("sessions = %v, want 2", ids)
	}
}
