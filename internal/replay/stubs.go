package replay

// #region imports
import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/docs"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/eval"
	"github.com/danielpatrickdp/docchat/go-assistant/internal/llm"
)

// #endregion

// #region scripted-completer

// ScriptedCompleter replays canned structured outputs keyed by the schema
// name in the request's response_format. Queued payloads are consumed first;
// sticky defaults answer everything after. Also used by the package tests as
// the generation-capability stub.
type ScriptedCompleter struct {
	mu       sync.Mutex
	queues   map[string][]string
	defaults map[string]string
	failing  map[string]bool
}

// NewScriptedCompleter returns an empty script.
func NewScriptedCompleter() *ScriptedCompleter {
	return &ScriptedCompleter{
		queues:   make(map[string][]string),
		defaults: make(map[string]string),
		failing:  make(map[string]bool),
	}
}

// Queue appends one-shot payloads for a schema name.
func (s *ScriptedCompleter) Queue(schemaName string, payloads ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[schemaName] = append(s.queues[schemaName], payloads...)
}

// Default sets the sticky payload returned once the queue is drained.
func (s *ScriptedCompleter) Default(schemaName, payload string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults[schemaName] = payload
}

// FailOn makes every call for a schema name fail at the transport level.
func (s *ScriptedCompleter) FailOn(schemaName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[schemaName] = true
}

// Complete implements llm.Completer.
func (s *ScriptedCompleter) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	name := schemaNameOf(req)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing[name] {
		return "", fmt.Errorf("scripted failure for %s", name)
	}
	if q := s.queues[name]; len(q) > 0 {
		payload := q[0]
		s.queues[name] = q[1:]
		return payload, nil
	}
	if payload, ok := s.defaults[name]; ok {
		return payload, nil
	}
	return "", fmt.Errorf("no scripted payload for %s", name)
}

// schemaNameOf digs the json_schema name out of the response_format.
func schemaNameOf(req llm.ChatRequest) string {
	js, ok := req.ResponseFormat["json_schema"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := js["name"].(string)
	return name
}

// #endregion scripted-completer

// #region static-docs

// StaticDocs is an in-memory document capability for fixtures and tests.
type StaticDocs struct {
	Docs      map[string]docs.Document
	SearchErr error
	GetErr    error
}

// NewStaticDocs indexes the given documents by ID.
func NewStaticDocs(documents ...docs.Document) *StaticDocs {
	m := make(map[string]docs.Document, len(documents))
	for _, d := range documents {
		m[d.ID] = d
	}
	return &StaticDocs{Docs: m}
}

// Get reports unknown identifiers per-id, like the real store.
func (s *StaticDocs) Get(_ context.Context, ids []string) (map[string]docs.Document, []string, error) {
	if s.GetErr != nil {
		return nil, nil, s.GetErr
	}
	found := make(map[string]docs.Document)
	var missing []string
	for _, id := range ids {
		if d, ok := s.Docs[id]; ok {
			found[id] = d
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

// Search matches on a case-insensitive word overlap against title and
// content; deterministic ID ordering for equal scores.
func (s *StaticDocs) Search(_ context.Context, query string, f docs.Filters) ([]docs.SearchResult, error) {
	if s.SearchErr != nil {
		return nil, s.SearchErr
	}
	words := strings.Fields(strings.ToLower(query))
	var results []docs.SearchResult
	for _, d := range s.Docs {
		if f.Type != "" && d.Type != f.Type {
			continue
		}
		haystack := strings.ToLower(d.Title + " " + d.Content)
		score := 0.0
		for _, w := range words {
			if len(w) > 3 && strings.Contains(haystack, w) {
				score++
			}
		}
		if score > 0 {
			results = append(results, docs.SearchResult{ID: d.ID, Title: d.Title, Score: score})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// #endregion static-docs

// #region evaluators

// FailingEvaluator always fails, forcing the calculation stage's manual
// fallback path.
type FailingEvaluator struct{}

// Evaluate implements eval.Evaluator.
func (FailingEvaluator) Evaluate(context.Context, string) (float64, error) {
	return 0, fmt.Errorf("%w: evaluator offline", eval.ErrEvaluation)
}

// #endregion evaluators
