package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/checkpoint"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/docs"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/eval"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/llm"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/logging"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/replay"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/stage"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/workflow"
)

func invoiceCorpus() []docs.Document {
	return []docs.Document{
		{ID: "INV-001", Type: "invoice", Title: "Invoice INV-001 - Acme Consulting",
			Content: "Consulting services.\nSubtotal: $20,000\nTax: $2,000\nTotal: $22,000", Amount: 22000, Currency: "USD"},
		{ID: "RPT-101", Type: "report", Title: "Q2 Revenue Report",
			Content: "Consulting revenue grew 14% quarter over quarter."},
	}
}

// testEngine builds a full five-stage engine over scripted capabilities.
func testEngine(t *testing.T, store checkpoint.Store, completer *replay.ScriptedCompleter) *workflow.Engine {
	t.Helper()
	log := logging.Nop()
	gen := llm.NewGenerator(completer, "scripted", 0, log)
	docStore := replay.NewStaticDocs(invoiceCorpus()...)

	engine, err := workflow.New(store, nil, log,
		stage.NewClassifier(gen, log),
		stage.NewAnswer(gen, docStore, log),
		stage.NewSummarize(gen, docStore, log),
		stage.NewCalculate(docStore, eval.NewLocal(), log),
		stage.NewMemory(gen, log),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func scriptedFor(intent string) *replay.ScriptedCompleter {
	c := replay.NewScriptedCompleter()
	c.Default("user_intent", fmt.Sprintf(`{"category": %q, "confidence": 0.9, "reasoning": "scripted"}`, intent))
	c.Default("answer_result", `{"question": "", "answer": "Scripted answer.", "sources": ["INV-001"], "confidence": 0.8, "timestamp": "2026-01-05T09:00:00Z"}`)
	c.Default("summarization_result", `{"summary": "Scripted summary.", "key_points": [], "document_ids": [], "original_length": 0, "timestamp": "2026-01-05T09:00:00Z"}`)
	c.Default("memory_update", `{"summary": "Scripted rolling summary.", "document_ids": []}`)
	return c
}

func TestProcessTurnCalculation(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	engine := testEngine(t, store, scriptedFor("calculate"))
	ctx := context.Background()

	resp, err := engine.ProcessTurn(ctx, "sess-1", "user-1", "What is the total on INV-001?")
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	if resp.Kind != schema.ResponseCalculation {
		t.Fatalf("kind = %s, want calculation", resp.Kind)
	}
	if resp.Calculation.Result != 22000 {
		t.Errorf("result = %v, want 22000", resp.Calculation.Result)
	}

	st, err := engine.SessionState(ctx, "sess-1")
	if err != nil {
		t.Fatalf("session state: %v", err)
	}
	wantActions := []string{session.StageClassify, session.StageCalculate, session.StageUpdateMemory}
	if !reflect.DeepEqual(st.ActionsTaken, wantActions) {
		t.Errorf("actions taken = %v, want %v", st.ActionsTaken, wantActions)
	}
	if len(st.ActiveDocuments) != 1 || st.ActiveDocuments[0] != "INV-001" {
		t.Errorf("active documents = %v, want [INV-001]", st.ActiveDocuments)
	}
	if st.NextStage != session.StageEnd {
		t.Errorf("next stage = %q, want end", st.NextStage)
	}
}

func TestProcessTurnUnknownIntentFallsBackToAnswer(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	engine := testEngine(t, store, scriptedFor("unknown"))

	resp, err := engine.ProcessTurn(context.Background(), "sess-1", "user-1", "mumble mumble")
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	if resp.Kind != schema.ResponseAnswer {
		t.Errorf("kind = %s, want answer fallback", resp.Kind)
	}

	st, _ := engine.SessionState(context.Background(), "sess-1")
	if st.ActionsTaken[1] != session.StageAnswer {
		t.Errorf("specialized stage = %s, want answer", st.ActionsTaken[1])
	}
}

func TestProcessTurnGrowsLogsMonotonically(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	engine := testEngine(t, store, scriptedFor("answer_question"))
	ctx := context.Background()

	inputs := []string{"What is INV-001?", "And the tax?", "Who issued it?"}
	for i, input := range inputs {
		if _, err := engine.ProcessTurn(ctx, "sess-1", "user-1", input); err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		st, err := engine.SessionState(ctx, "sess-1")
		if err != nil {
			t.Fatalf("session state: %v", err)
		}
		// Each turn adds one user and one assistant message, three actions.
		if want := (i + 1) * 2; len(st.MessageLog) != want {
			t.Errorf("turn %d: message log = %d entries, want %d", i+1, len(st.MessageLog), want)
		}
		if want := (i + 1) * 3; len(st.ActionsTaken) != want {
			t.Errorf("turn %d: actions taken = %d, want %d", i+1, len(st.ActionsTaken), want)
		}
	}
}

func TestProcessTurnResumesAcrossEngines(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	ctx := context.Background()

	first := testEngine(t, store, scriptedFor("answer_question"))
	if _, err := first.ProcessTurn(ctx, "sess-1", "user-1", "Tell me about INV-001"); err != nil {
		t.Fatalf("first turn: %v", err)
	}

	// A new engine over the same store picks up the session where it left off.
	second := testEngine(t, store, scriptedFor("answer_question"))
	if _, err := second.ProcessTurn(ctx, "sess-1", "user-1", "And its tax?"); err != nil {
		t.Fatalf("resumed turn: %v", err)
	}

	st, err := second.SessionState(ctx, "sess-1")
	if err != nil {
		t.Fatalf("session state: %v", err)
	}
	if len(st.MessageLog) != 4 {
		t.Errorf("message log = %d entries, want 4 across both turns", len(st.MessageLog))
	}
	if len(st.ActionsTaken) != 6 {
		t.Errorf("actions taken = %d, want 6", len(st.ActionsTaken))
	}
	if st.ConversationSummary == "" {
		t.Errorf("conversation summary lost on resume")
	}
}

func TestSessionsIsolated(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	engine := testEngine(t, store, scriptedFor("answer_question"))
	ctx := context.Background()

	if _, err := engine.ProcessTurn(ctx, "sess-a", "user-1", "About INV-001?"); err != nil {
		t.Fatalf("sess-a: %v", err)
	}
	if _, err := engine.ProcessTurn(ctx, "sess-b", "user-2", "About RPT-101?"); err != nil {
		t.Fatalf("sess-b: %v", err)
	}

	a, _ := engine.SessionState(ctx, "sess-a")
	b, _ := engine.SessionState(ctx, "sess-b")
	if len(a.MessageLog) != 2 || len(b.MessageLog) != 2 {
		t.Errorf("cross-session leak: a=%d b=%d messages", len(a.MessageLog), len(b.MessageLog))
	}
	if a.UserID == b.UserID {
		t.Errorf("user identity leaked across sessions")
	}
}

// failingStore wraps a working store and fails saves after a given count.
type failingStore struct {
	*checkpoint.MemoryStore
	failAfter int
	saves     int
}

func (f *failingStore) Save(ctx context.Context, st *session.State) error {
	f.saves++
	if f.saves > f.failAfter {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(ctx, st)
}

func TestPersistenceFailureIsFatalAndDistinct(t *testing.T) {
	store := &failingStore{MemoryStore: checkpoint.NewMemoryStore(), failAfter: 1}
	engine := testEngine(t, store, scriptedFor("answer_question"))

	_, err := engine.ProcessTurn(context.Background(), "sess-1", "user-1", "About INV-001?")
	if err == nil {
		t.Fatal("expected persistence failure")
	}
	if !errors.Is(err, workflow.ErrPersistence) {
		t.Errorf("err = %v, want ErrPersistence", err)
	}
	if errors.Is(err, llm.ErrValidation) {
		t.Errorf("persistence failure misreported as generation failure")
	}
}

func TestCancelledContextAbortsTurn(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	engine := testEngine(t, store, scriptedFor("answer_question"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.ProcessTurn(ctx, "sess-1", "user-1", "About INV-001?")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewRequiresAllStages(t *testing.T) {
	log := logging.Nop()
	gen := llm.NewGenerator(replay.NewScriptedCompleter(), "scripted", 0, log)
	_, err := workflow.New(checkpoint.NewMemoryStore(), nil, log,
		stage.NewClassifier(gen, log),
	)
	if err == nil {
		t.Fatal("expected error with missing stages")
	}
}
