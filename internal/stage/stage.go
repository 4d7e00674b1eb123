// Package stage implements the workflow graph nodes. Each stage reads the
// shared Turn State, invokes external capabilities, and returns only the
// fields it changes.
package stage

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/docs"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/session"
)

// #endregion

// #region tool-names

// Capability names as recorded in the per-turn tool trace.
const (
	ToolDocumentSearch = "document_search"
	ToolDocumentGet    = "document_get"
	ToolEvaluate       = "evaluate"
)

// #endregion

// #region document-store

// DocumentStore is the retrieval + search capability surface the stages use.
// *docs.Store satisfies it; tests inject fixtures.
type DocumentStore interface {
	Get(ctx context.Context, ids []string) (map[string]docs.Document, []string, error)
	Search(ctx context.Context, query string, f docs.Filters) ([]docs.SearchResult, error)
}

// #endregion document-store

// #region helpers

// toolCall builds a trace entry with JSON-encoded input and output.
func toolCall(tool string, input, output any) session.ToolCall {
	in, _ := json.Marshal(input)
	out, _ := json.Marshal(output)
	return session.ToolCall{
		Tool:      tool,
		Input:     string(in),
		Output:    string(out),
		CreatedAt: time.Now().UTC(),
	}
}

// docRefPattern matches explicit document identifiers like INV-001 or RPT-42.
var docRefPattern = regexp.MustCompile(`\b[A-Z]{2,8}-\d{1,6}\b`)

// docIDsIn extracts explicit document references from free text.
func docIDsIn(text string) []string {
	matches := docRefPattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	var ids []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		ids = append(ids, m)
	}
	return ids
}

// appendUnique adds id to ids unless already present.
func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// recentHistory renders the last n log entries for prompt context.
func recentHistory(st *session.State, n int) string {
	log := st.MessageLog
	if len(log) > n {
		log = log[len(log)-n:]
	}
	var b strings.Builder
	for _, m := range log {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	return b.String()
}

// contextBlock renders retrieved documents for prompt grounding, in the
// order they were requested.
func contextBlock(ids []string, found map[string]docs.Document) string {
	var b strings.Builder
	for _, id := range ids {
		d, ok := found[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "[%s] %s\n%s\n\n", d.ID, d.Title, d.Content)
	}
	return b.String()
}

// consultedIDs returns the requested ids that were actually retrieved,
// preserving request order.
func consultedIDs(ids []string, found map[string]docs.Document) []string {
	var out []string
	for _, id := range ids {
		if _, ok := found[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// #endregion helpers
