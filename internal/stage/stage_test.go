package stage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/docs"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/llm"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/logging"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

// scriptedCompleter returns one canned payload per schema name.
type scriptedCompleter struct {
	payloads map[string]string
	err      error
}

func (s *scriptedCompleter) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	name := schemaNameOf(req)
	payload, ok := s.payloads[name]
	if !ok {
		return "", errors.New("no scripted payload for " + name)
	}
	return payload, nil
}

func schemaNameOf(req llm.ChatRequest) string {
	js, ok := req.ResponseFormat["json_schema"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := js["name"].(string)
	return name
}

func newGen(t *testing.T, payloads map[string]string) *llm.Generator {
	t.Helper()
	return llm.NewGenerator(&scriptedCompleter{payloads: payloads}, "test", 0, logging.Nop())
}

func failingGen(t *testing.T) *llm.Generator {
	t.Helper()
	return llm.NewGenerator(&scriptedCompleter{err: errors.New("backend down")}, "test", 0, logging.Nop())
}

// fakeDocs is an in-memory DocumentStore with trivial token-overlap search.
type fakeDocs struct {
	store     map[string]docs.Document
	searchErr error
	getErr    error
}

func newFakeDocs(list ...docs.Document) *fakeDocs {
	f := &fakeDocs{store: make(map[string]docs.Document)}
	for _, d := range list {
		f.store[d.ID] = d
	}
	return f
}

func (f *fakeDocs) Get(_ context.Context, ids []string) (map[string]docs.Document, []string, error) {
	if f.getErr != nil {
		return nil, nil, f.getErr
	}
	found := make(map[string]docs.Document)
	var missing []string
	for _, id := range ids {
		if d, ok := f.store[id]; ok {
			found[id] = d
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

func (f *fakeDocs) Search(_ context.Context, query string, _ docs.Filters) ([]docs.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var results []docs.SearchResult
	for id, d := range f.store {
		for _, word := range strings.Fields(strings.ToLower(query)) {
			if strings.Contains(strings.ToLower(d.Content), word) || strings.Contains(strings.ToLower(d.Title), word) {
				results = append(results, docs.SearchResult{ID: id, Title: d.Title, Score: 1})
				break
			}
		}
	}
	return results, nil
}

// stubEvaluator returns a fixed result or a fixed error.
type stubEvaluator struct {
	result float64
	err    error
	expr   string
}

func (s *stubEvaluator) Evaluate(_ context.Context, expression string) (float64, error) {
	s.expr = expression
	if s.err != nil {
		return 0, s.err
	}
	return s.result, nil
}

func invoiceDoc() docs.Document {
	return docs.Document{
		ID:       "INV-001",
		Type:     "invoice",
		Title:    "Invoice INV-001 - Acme Consulting",
		Content:  "Consulting services.\nSubtotal: $20,000\nTax: $2,000\nTotal: $22,000",
		Amount:   22000,
		Currency: "USD",
	}
}

func turnState(input string) *session.State {
	st := session.NewState("sess-1", "user-1")
	st.BeginTurn(input)
	return st
}

func TestDocIDsIn(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"total INV-001 and INV-002 please", []string{"INV-001", "INV-002"}},
		{"INV-001 again INV-001", []string{"INV-001"}},
		{"no references here", nil},
		{"lowercase inv-001 is not a reference", nil},
	}
	for _, tt := range tests {
		got := docIDsIn(tt.text)
		if len(got) != len(tt.want) {
			t.Errorf("docIDsIn(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("docIDsIn(%q) = %v, want %v", tt.text, got, tt.want)
			}
		}
	}
}
