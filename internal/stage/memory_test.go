package stage

import (
	"context"
	"testing"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/logging"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

const memoryPayload = `{"summary": "User reviewed invoice INV-001 totals.", "document_ids": ["INV-001"]}`

func TestMemoryReplacesSummaryAndDocuments(t *testing.T) {
	m := NewMemory(newGen(t, map[string]string{"memory_update": memoryPayload}), logging.Nop())

	st := turnState("What is the total on INV-001?")
	st.ConversationSummary = "older summary"
	st.ActiveDocuments = []string{"RPT-500"}

	upd, err := m.Run(context.Background(), st)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if upd.ConversationSummary == nil || *upd.ConversationSummary != "User reviewed invoice INV-001 totals." {
		t.Errorf("summary = %v", upd.ConversationSummary)
	}
	if len(upd.ActiveDocuments) != 1 || upd.ActiveDocuments[0] != "INV-001" {
		t.Errorf("active documents = %v, want replacement with [INV-001]", upd.ActiveDocuments)
	}
	if upd.NextStage == nil || *upd.NextStage != session.StageEnd {
		t.Errorf("next stage = %v, want end", upd.NextStage)
	}
}

func TestMemoryDegradesWithoutFailingTurn(t *testing.T) {
	m := NewMemory(failingGen(t), logging.Nop())

	st := turnState("What is the total on INV-001?")
	st.ConversationSummary = "summary to preserve"
	st.CurrentResponse = schema.NewAnswerResponse(schema.AnswerResult{
		Answer: "It totals $22,000.", Sources: []string{"INV-001"}, Confidence: 0.9,
	})

	upd, err := m.Run(context.Background(), st)
	if err != nil {
		t.Fatalf("memory maintenance must never fail the turn: %v", err)
	}
	if upd.ConversationSummary != nil {
		t.Errorf("summary update = %v, want untouched on degradation", upd.ConversationSummary)
	}
	if len(upd.ActiveDocuments) != 1 || upd.ActiveDocuments[0] != "INV-001" {
		t.Errorf("active documents = %v, want the response's sources", upd.ActiveDocuments)
	}
	if upd.NextStage == nil || *upd.NextStage != session.StageEnd {
		t.Errorf("next stage = %v, want end", upd.NextStage)
	}
}

func TestLocalDocumentIDsFallsBackToToolTrace(t *testing.T) {
	st := turnState("total everything")
	st.CurrentResponse = schema.NewCalculationResponse(schema.CalculationResult{Expression: "1+1", Result: 2})
	st.ToolsUsed = []session.ToolCall{
		{Tool: ToolDocumentSearch, Output: `["INV-001","INV-002"]`},
		{Tool: ToolDocumentGet, Output: `["INV-001","INV-002"]`},
		{Tool: ToolEvaluate, Output: `305800`},
	}

	ids := localDocumentIDs(st)
	if len(ids) != 2 || ids[0] != "INV-001" || ids[1] != "INV-002" {
		t.Errorf("ids = %v, want the document_get trace", ids)
	}
}
