package stage

import (
	"context"
	"testing"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/logging"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/schema"
)

const summaryPayload = `{"summary": "One consulting invoice totaling $22,000.", "key_points": ["$22,000 total"], "document_ids": ["BOGUS-1"], "original_length": 9999, "timestamp": "2026-01-05T09:00:00Z"}`

func TestSummarizeOverridesModelClaims(t *testing.T) {
	s := NewSummarize(newGen(t, map[string]string{"summarization_result": summaryPayload}), newFakeDocs(invoiceDoc()), logging.Nop())

	upd, err := s.Run(context.Background(), turnState("Summarize INV-001"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	resp := upd.CurrentResponse
	if resp == nil || resp.Kind != schema.ResponseSummary {
		t.Fatalf("response = %+v", resp)
	}
	if len(resp.Summary.DocumentIDs) != 1 || resp.Summary.DocumentIDs[0] != "INV-001" {
		t.Errorf("document ids = %v, want the retrieved set, not the model's claim", resp.Summary.DocumentIDs)
	}
	if want := len(invoiceDoc().Content); resp.Summary.OriginalLength != want {
		t.Errorf("original length = %d, want computed %d", resp.Summary.OriginalLength, want)
	}
}

func TestSummarizeNoDocumentsFailsTurn(t *testing.T) {
	s := NewSummarize(newGen(t, map[string]string{"summarization_result": summaryPayload}), newFakeDocs(), logging.Nop())
	_, err := s.Run(context.Background(), turnState("Summarize everything about zygotes"))
	if err == nil {
		t.Fatal("expected error with nothing to summarize")
	}
}

func TestSummarizeMissingReferencedDocumentFailsTurn(t *testing.T) {
	s := NewSummarize(newGen(t, map[string]string{"summarization_result": summaryPayload}), newFakeDocs(), logging.Nop())
	_, err := s.Run(context.Background(), turnState("Summarize INV-999"))
	if err == nil {
		t.Fatal("expected error when the referenced document does not exist")
	}
}
